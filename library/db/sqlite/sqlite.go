// Package sqlite opens the embedded single-file database used by the
// local store driver.
package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/Laisky/game-media-api/library/log"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the database at path and pings it.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	// one writer at a time, avoids SQLITE_BUSY under concurrent inserts
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}

	log.Logger.Info("opened sqlite db", zap.String("path", cleanPath))
	return db, nil
}
