package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/game-media-api/internal/web"
	"github.com/Laisky/game-media-api/internal/web/game/controller"
	"github.com/Laisky/game-media-api/internal/web/game/service"
	"github.com/Laisky/game-media-api/library/log"
)

const storeCloseTimeout = 10 * time.Second

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `media and score API service for games`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
		if err := validateStartupConfig(); err != nil {
			log.Logger.Panic("invalid startup configuration", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAPI(context.Background()); err != nil {
			log.Logger.Panic("run api", zap.Error(err))
		}
	},
}

func runAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !gconfig.S.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := newStore(ctx)
	if err != nil {
		return errors.Wrap(err, "new store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			log.Logger.Error("close store", zap.Error(err))
		}
	}()

	settings := service.LoadSettingsFromConfig()
	log.Logger.Info("api settings",
		zap.Bool("validation", settings.ValidationEnabled),
		zap.Bool("forbid_unknown_fields", settings.ForbidUnknownFields),
		zap.Int64("max_upload_bytes", settings.MaxUploadBytes),
		zap.Duration("request_timeout", settings.RequestTimeout),
	)

	srv, err := web.NewServer(
		controller.New(service.New(store, settings)),
		web.Options{
			AllowedOrigins: gconfig.S.GetStringSlice("settings.web.cors.allowed_origins"),
			Metrics:        true,
		},
	)
	if err != nil {
		return errors.Wrap(err, "new server")
	}

	pool, gctx := errgroup.WithContext(ctx)
	pool.Go(func() error {
		return srv.Run(gctx, gconfig.S.GetString("listen"))
	})
	pool.Go(func() error {
		<-gctx.Done()
		log.Logger.Info("stopping api")
		return nil
	})

	if err := pool.Wait(); err != nil {
		return errors.Wrap(err, "serve")
	}

	log.Logger.Info("api stopped")
	return nil
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
