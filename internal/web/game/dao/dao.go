// Package dao is the persistence adapter for assets and scores.
package dao

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/game-media-api/internal/web/game/model"
)

// Store persists assets and scores.
//
// Implementations must be safe for concurrent use and must return
// documents in the backend's natural order.
type Store interface {
	InsertAsset(ctx context.Context, kind model.AssetKind, asset *model.Asset) (primitive.ObjectID, error)
	ListAssets(ctx context.Context, kind model.AssetKind) ([]*model.Asset, error)
	InsertScore(ctx context.Context, score *model.Score) (primitive.ObjectID, error)
	ListScores(ctx context.Context) ([]*model.Score, error)
}
