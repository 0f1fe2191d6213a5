package web

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/game-media-api/internal/web/game/controller"
	"github.com/Laisky/game-media-api/internal/web/game/dao"
	"github.com/Laisky/game-media-api/internal/web/game/service"
	"github.com/Laisky/game-media-api/library/db/sqlite"
)

var (
	ginModeOnce sync.Once
)

func setupGinTestMode() {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
}

func newTestServer(t *testing.T, opt Options) *Server {
	t.Helper()
	setupGinTestMode()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := dao.NewSQLite(ctx, db)
	require.NoError(t, err)

	srv, err := NewServer(controller.New(service.New(store, service.DefaultSettings())), opt)
	require.NoError(t, err)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello, world", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Server is running!"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(rec.Header().Get(headerRequestID))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "trace-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, "trace-123", rec.Header().Get(headerRequestID))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		expectedOrigin string
	}{
		{
			name:           "disabled",
			method:         http.MethodGet,
			origin:         "https://game.example.com",
			expectedOrigin: "",
		},
		{
			name:           "allowed origin",
			origins:        []string{"https://game.example.com"},
			method:         http.MethodGet,
			origin:         "https://game.example.com",
			expectedOrigin: "https://game.example.com",
		},
		{
			name:           "allowed origin preflight",
			origins:        []string{"https://game.example.com"},
			method:         http.MethodOptions,
			origin:         "https://game.example.com",
			expectedOrigin: "https://game.example.com",
		},
		{
			name:           "other origin",
			origins:        []string{"https://game.example.com"},
			method:         http.MethodGet,
			origin:         "https://evil.com",
			expectedOrigin: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, Options{AllowedOrigins: tc.origins})

			req := httptest.NewRequest(tc.method, "/scores", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			require.Equal(t, tc.expectedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tc.method == http.MethodGet {
				require.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	srv := newTestServer(t, Options{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

var (
	metricsServerOnce sync.Once
	metricsServer     *Server
	metricsServerErr  error
)

// newMetricsServer builds the metrics-enabled server once per process,
// since metric collectors register globally.
func newMetricsServer(t *testing.T) *Server {
	t.Helper()
	metricsServerOnce.Do(func() {
		setupGinTestMode()
		ctx := context.Background()
		db, err := sqlite.Open(ctx, filepath.Join(os.TempDir(), "game-media-metrics-"+uuid.NewString()+".db"))
		if err != nil {
			metricsServerErr = err
			return
		}
		store, err := dao.NewSQLite(ctx, db)
		if err != nil {
			metricsServerErr = err
			return
		}

		metricsServer, metricsServerErr = NewServer(
			controller.New(service.New(store, service.DefaultSettings())),
			Options{Metrics: true},
		)
	})
	require.NoError(t, metricsServerErr)
	return metricsServer
}

func TestMetrics(t *testing.T) {
	srv := newMetricsServer(t)

	// one request so the request metrics have samples
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.String())
}
