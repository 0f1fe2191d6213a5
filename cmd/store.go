package cmd

import (
	"context"
	"strings"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/game-media-api/internal/web/game/dao"
	"github.com/Laisky/game-media-api/library/db/mongo"
	"github.com/Laisky/game-media-api/library/db/sqlite"
	"github.com/Laisky/game-media-api/library/log"
)

const (
	driverMongo  = "mongo"
	driverSQLite = "sqlite"

	defaultSQLitePath = "game_media.db"
)

// storeCloser releases the backing database.
type storeCloser func(ctx context.Context) error

// newStore opens the backend selected by settings.db.driver.
func newStore(ctx context.Context) (dao.Store, storeCloser, error) {
	driver := strings.ToLower(strings.TrimSpace(gconfig.S.GetString("settings.db.driver")))
	if driver == "" {
		driver = driverMongo
	}
	log.Logger.Info("open store", zap.String("driver", driver))

	switch driver {
	case driverMongo:
		db, err := mongo.NewDB(ctx, mongo.DialInfo{
			URI:    gconfig.S.GetString("settings.db.mongo.uri"),
			Addr:   gconfig.S.GetString("settings.db.mongo.addr"),
			DBName: gconfig.S.GetString("settings.db.mongo.db"),
			User:   gconfig.S.GetString("settings.db.mongo.user"),
			Pwd:    gconfig.S.GetString("settings.db.mongo.pwd"),
			AuthDB: gconfig.S.GetString("settings.db.mongo.auth_db"),
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect mongo")
		}

		return dao.NewMongo(db), db.Close, nil
	case driverSQLite:
		path := gconfig.S.GetString("settings.db.sqlite.path")
		if path == "" {
			path = defaultSQLitePath
		}

		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open sqlite")
		}

		store, err := dao.NewSQLite(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "prepare sqlite store")
		}

		return store, func(context.Context) error { return db.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown db driver %q", driver)
	}
}
