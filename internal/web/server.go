// Package web gin server
package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/Laisky/game-media-api/internal/web/ctxkeys"
	"github.com/Laisky/game-media-api/internal/web/game/controller"
	"github.com/Laisky/game-media-api/library/log"
)

const (
	headerRequestID    = "X-Request-Id"
	maxRequestIDLength = 128
	readHeaderTimeout  = 10 * time.Second
	shutdownTimeout    = 15 * time.Second
)

// Options configures the HTTP server.
type Options struct {
	// AllowedOrigins enables CORS for these origins. Empty disables CORS.
	AllowedOrigins []string
	// Metrics exposes /metrics and pprof routes.
	Metrics bool
}

// Server is the game media HTTP server.
type Server struct {
	engine  *gin.Engine
	handler http.Handler
}

// NewServer builds the gin engine and mounts ctrl.
func NewServer(ctrl *controller.Controller, opt Options) (*Server, error) {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		requestID,
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(log.Logger.Named("gin")),
		),
	)

	if opt.Metrics {
		if err := gmw.EnableMetric(engine); err != nil {
			return nil, errors.Wrap(err, "enable metric server")
		}
	}

	engine.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})
	ctrl.Register(engine)

	return &Server{
		engine:  engine,
		handler: withCORS(engine, opt.AllowedOrigins),
	}, nil
}

// Handler returns the root handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %q", addr)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Logger.Info("listening on http", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server exit")
	case <-ctx.Done():
	}

	log.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http server")
	}

	return nil
}

// requestID propagates the caller's X-Request-Id or assigns a new one.
func requestID(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.GetHeader(headerRequestID))
	if id == "" || len(id) > maxRequestIDLength {
		id = uuid.NewString()
	}

	ctx.Set(ctxkeys.RequestID, id)
	ctx.Header(headerRequestID, id)
	ctx.Next()
}

func withCORS(next http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return next
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         86400,
	}).Handler(next)
}
