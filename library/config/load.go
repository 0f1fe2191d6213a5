// Package config loads service configuration from file and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/Laisky/game-media-api/library/log"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
)

// LoadFromFile loads the YAML settings file into the shared config.
//
// A missing file is not an error: the service can be driven entirely
// by environment variables. Any other load failure is returned.
func LoadFromFile(cfgPath string) error {
	if cfgPath == "" {
		log.Logger.Info("no configuration file given, use defaults and environment")
		return nil
	}

	if _, err := os.Stat(cfgPath); err != nil {
		if os.IsNotExist(err) {
			log.Logger.Warn("configuration file not found, use defaults and environment",
				zap.String("config", cfgPath))
			return nil
		}

		return errors.Wrapf(err, "stat config %q", cfgPath)
	}

	gconfig.S.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.S.LoadFromFile(cfgPath); err != nil {
		return errors.Wrapf(err, "load config %q", cfgPath)
	}

	log.Logger.Info("load configuration", zap.String("config", cfgPath))
	return nil
}
