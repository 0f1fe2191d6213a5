package config

import (
	"os"
	"strings"

	"github.com/Laisky/game-media-api/library/log"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env is the environment overlay. Non-empty values override the file.
type Env struct {
	MongoURI           string   `env:"MONGO_URI"`
	DBHost             string   `env:"DB_HOST"`
	DBUsername         string   `env:"DB_USERNAME"`
	DBPassword         string   `env:"DB_PASSWORD"`
	DBName             string   `env:"DB_NAME"`
	DBAuthSource       string   `env:"DB_AUTH_SOURCE"`
	DBDriver           string   `env:"DB_DRIVER"`
	SQLitePath         string   `env:"SQLITE_PATH"`
	Listen             string   `env:"LISTEN"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// ParseEnv reads the environment into Env.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errors.Wrap(err, "parse env")
	}

	return e, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are left untouched.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "stat %q", p)
		}

		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %q", p)
		}
		log.Logger.Info("load dotenv", zap.String("file", p))
	}

	return nil
}

// LoadFromEnv loads .env (if any), parses the environment and applies
// every non-empty value on top of the shared config.
func LoadFromEnv() error {
	if err := LoadDotEnv(); err != nil {
		return errors.Wrap(err, "load dotenv")
	}

	e, err := ParseEnv()
	if err != nil {
		return err
	}

	e.Apply(gconfig.S.Set)
	return nil
}

// Apply writes non-empty environment values through set.
func (e Env) Apply(set func(key string, val any)) {
	setString := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			set(key, val)
		}
	}

	setString("settings.db.mongo.uri", e.MongoURI)
	setString("settings.db.mongo.addr", e.DBHost)
	setString("settings.db.mongo.user", e.DBUsername)
	setString("settings.db.mongo.pwd", e.DBPassword)
	setString("settings.db.mongo.db", e.DBName)
	setString("settings.db.mongo.auth_db", e.DBAuthSource)
	setString("settings.db.driver", strings.ToLower(e.DBDriver))
	setString("settings.db.sqlite.path", e.SQLitePath)
	setString("listen", e.Listen)

	var origins []string
	for _, o := range e.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) != 0 {
		set("settings.web.cors.allowed_origins", origins)
	}
}
