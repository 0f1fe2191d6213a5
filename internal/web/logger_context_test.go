// Package web tests context-aware logger usage in handlers.
package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/game-media-api/internal/web/ctxkeys"
)

func TestContextLoggerInServerHandler(t *testing.T) {
	srv := newTestServer(t, Options{})

	var (
		loggerNotNil bool
		hasGinCtx    bool
		requestID    string
	)
	srv.engine.GET("/probe", func(c *gin.Context) {
		logger := gmw.GetLogger(c)
		loggerNotNil = logger != nil
		_, hasGinCtx = gmw.GetGinCtxFromStdCtx(c)
		requestID = c.GetString(ctxkeys.RequestID)

		if logger != nil {
			logger.Debug("probe", zap.String("request_id", requestID))
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(headerRequestID, "probe-1")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, loggerNotNil, "Logger should be accessible from context")
	require.True(t, hasGinCtx, "Gin context should be accessible via gmw.GetGinCtxFromStdCtx")
	require.Equal(t, "probe-1", requestID)
}

func TestContextLoggerFromStdContext(t *testing.T) {
	srv := newTestServer(t, Options{})

	var stdCtxLoggerWorks bool
	srv.engine.GET("/probe", func(c *gin.Context) {
		// service layers only see a context.Context
		ctx := context.Context(c)
		if logger := gmw.GetLogger(ctx); logger != nil {
			logger.Debug("service layer log")
			stdCtxLoggerWorks = true
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, stdCtxLoggerWorks, "Logger should work when passed via standard context")
}

func TestLoggerFallbackWhenNoGinContext(t *testing.T) {
	t.Parallel()

	logger := gmw.GetLogger(context.Background())
	require.NotNil(t, logger, "Logger should have a fallback when no gin context")
	logger.Debug("fallback logger test")
}
