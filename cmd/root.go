package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/game-media-api/library/config"
	"github.com/Laisky/game-media-api/library/log"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
)

var rootCMD = &cobra.Command{
	Use:   "game-media-api",
	Short: "game-media-api",
	Long:  `media and score API service for games`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.S.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	if err := setupSettings(ctx); err != nil {
		return errors.Wrap(err, "setup settings")
	}
	if err := setupLogger(ctx); err != nil {
		return errors.Wrap(err, "setup logger")
	}

	return nil
}

func setupSettings(_ context.Context) error {
	// mode
	if gconfig.S.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.S.Set("log-level", "debug")
	} else { // prod mode
		fmt.Println("run in prod mode")
	}

	// load configuration, environment wins over the file
	if err := config.LoadFromFile(gconfig.S.GetString("config")); err != nil {
		return errors.Wrap(err, "load config file")
	}
	if err := config.LoadFromEnv(); err != nil {
		return errors.Wrap(err, "load config from env")
	}

	return nil
}

func setupLogger(_ context.Context) error {
	lvl := gconfig.S.GetString("log-level")
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		return errors.Wrapf(err, "change log level to %q", lvl)
	}

	return nil
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().String("listen", "localhost:8000", "like `localhost:8000`")
	rootCMD.PersistentFlags().StringP("config", "c", "/etc/game-media-api/settings.yml", "config file path")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		glog.Shared.Panic("start", zap.Error(err))
	}
}
