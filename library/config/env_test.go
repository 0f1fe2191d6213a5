package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb+srv://u:p@cluster.example.com/game_db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://game.example.com")

	e, err := ParseEnv()
	require.NoError(t, err)
	require.Equal(t, "mongodb+srv://u:p@cluster.example.com/game_db", e.MongoURI)
	require.Equal(t, "secret", e.DBPassword)
	require.Equal(t, []string{"http://localhost:5173", " https://game.example.com"}, e.CORSAllowedOrigins)
}

func TestEnvApplySkipsEmpty(t *testing.T) {
	got := map[string]any{}
	Env{
		DBHost:             "db:27017",
		DBName:             "game_db",
		DBDriver:           "SQLite",
		CORSAllowedOrigins: []string{" ", "http://localhost:5173 "},
	}.Apply(func(key string, val any) {
		got[key] = val
	})

	require.Equal(t, map[string]any{
		"settings.db.mongo.addr":            "db:27017",
		"settings.db.mongo.db":              "game_db",
		"settings.db.driver":                "sqlite",
		"settings.web.cors.allowed_origins": []string{"http://localhost:5173"},
	}, got)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("GAME_MEDIA_DOTENV_TEST=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GAME_MEDIA_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(p, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-file", os.Getenv("GAME_MEDIA_DOTENV_TEST"))
}

func TestLoadFromFileMissing(t *testing.T) {
	require.NoError(t, LoadFromFile(filepath.Join(t.TempDir(), "nope.yml")))
	require.NoError(t, LoadFromFile(""))
}
