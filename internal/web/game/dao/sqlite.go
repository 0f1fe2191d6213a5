package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/game-media-api/internal/web/game/model"
)

// SQLite mirrors the three collections as tables in one local file.
// Ids are generated ObjectIDs so both drivers expose the same id format.
type SQLite struct {
	db *sql.DB
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + model.ColSprites + ` (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		content BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + model.ColAudioFiles + ` (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		content BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + model.ColScores + ` (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		score INTEGER NOT NULL
	)`,
}

// NewSQLite creates the tables if needed and returns the store.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Wrap(err, "create table")
		}
	}

	return &SQLite{db: db}, nil
}

// InsertAsset inserts one asset row and returns its id.
func (d *SQLite) InsertAsset(ctx context.Context, kind model.AssetKind, asset *model.Asset) (primitive.ObjectID, error) {
	if !kind.Valid() {
		return primitive.NilObjectID, errors.Errorf("unknown asset kind %q", kind)
	}

	content := asset.Content
	if content == nil {
		content = []byte{}
	}

	id := primitive.NewObjectID()
	query := fmt.Sprintf(`INSERT INTO %s (id, filename, content) VALUES (?, ?, ?)`, kind.Collection())
	if _, err := d.db.ExecContext(ctx, query, id.Hex(), asset.Filename, content); err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "insert into %s", kind.Collection())
	}

	return id, nil
}

// ListAssets returns every asset of the kind in insertion order.
func (d *SQLite) ListAssets(ctx context.Context, kind model.AssetKind) ([]*model.Asset, error) {
	if !kind.Valid() {
		return nil, errors.Errorf("unknown asset kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT id, filename, content FROM %s ORDER BY rowid`, kind.Collection())
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", kind.Collection())
	}
	defer rows.Close()

	assets := []*model.Asset{}
	for rows.Next() {
		var (
			rawID string
			asset = new(model.Asset)
		)
		if err = rows.Scan(&rawID, &asset.Filename, &asset.Content); err != nil {
			return nil, errors.Wrapf(err, "scan %s", kind.Collection())
		}
		if asset.ID, err = primitive.ObjectIDFromHex(rawID); err != nil {
			return nil, errors.Wrapf(err, "parse id %q", rawID)
		}

		assets = append(assets, asset)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", kind.Collection())
	}

	return assets, nil
}

// InsertScore inserts one score row and returns its id.
func (d *SQLite) InsertScore(ctx context.Context, score *model.Score) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	if _, err := d.db.ExecContext(ctx,
		`INSERT INTO `+model.ColScores+` (id, player_id, score) VALUES (?, ?, ?)`,
		id.Hex(), score.PlayerID, score.Score,
	); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert score")
	}

	return id, nil
}

// ListScores returns every score in insertion order.
func (d *SQLite) ListScores(ctx context.Context) ([]*model.Score, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, player_id, score FROM `+model.ColScores+` ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "query scores")
	}
	defer rows.Close()

	scores := []*model.Score{}
	for rows.Next() {
		var (
			rawID string
			score = new(model.Score)
		)
		if err = rows.Scan(&rawID, &score.PlayerID, &score.Score); err != nil {
			return nil, errors.Wrap(err, "scan score")
		}
		if score.ID, err = primitive.ObjectIDFromHex(rawID); err != nil {
			return nil, errors.Wrapf(err, "parse id %q", rawID)
		}

		scores = append(scores, score)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate scores")
	}

	return scores, nil
}
