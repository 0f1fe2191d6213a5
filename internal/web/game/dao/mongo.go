package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/game-media-api/internal/web/game/model"
	"github.com/Laisky/game-media-api/library/db/mongo"
)

// Mongo stores every entity kind in its own collection.
type Mongo struct {
	db mongo.DB
}

// NewMongo creates a Mongo store on top of a connected handle.
func NewMongo(db mongo.DB) *Mongo {
	return &Mongo{db: db}
}

func (d *Mongo) assetCol(kind model.AssetKind) (*mongoLib.Collection, error) {
	if !kind.Valid() {
		return nil, errors.Errorf("unknown asset kind %q", kind)
	}
	return d.db.GetCol(kind.Collection()), nil
}

// GetScoresCol returns the scores collection.
func (d *Mongo) GetScoresCol() *mongoLib.Collection {
	return d.db.GetCol(model.ColScores)
}

// InsertAsset inserts one asset document and returns its id.
func (d *Mongo) InsertAsset(ctx context.Context, kind model.AssetKind, asset *model.Asset) (primitive.ObjectID, error) {
	col, err := d.assetCol(kind)
	if err != nil {
		return primitive.NilObjectID, err
	}

	res, err := col.InsertOne(ctx, bson.D{
		{Key: "filename", Value: asset.Filename},
		{Key: "content", Value: asset.Content},
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "insert into %s", col.Name())
	}

	return insertedID(res)
}

// ListAssets loads every document of the kind's collection.
func (d *Mongo) ListAssets(ctx context.Context, kind model.AssetKind) ([]*model.Asset, error) {
	col, err := d.assetCol(kind)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", col.Name())
	}

	assets := []*model.Asset{}
	if err = cur.All(ctx, &assets); err != nil {
		return nil, errors.Wrapf(err, "load %s", col.Name())
	}

	return assets, nil
}

// InsertScore inserts one score document and returns its id.
func (d *Mongo) InsertScore(ctx context.Context, score *model.Score) (primitive.ObjectID, error) {
	res, err := d.GetScoresCol().InsertOne(ctx, bson.D{
		{Key: "player_id", Value: score.PlayerID},
		{Key: "score", Value: score.Score},
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert score")
	}

	return insertedID(res)
}

// ListScores loads every score document.
func (d *Mongo) ListScores(ctx context.Context) ([]*model.Score, error) {
	cur, err := d.GetScoresCol().Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find scores")
	}

	scores := []*model.Score{}
	if err = cur.All(ctx, &scores); err != nil {
		return nil, errors.Wrap(err, "load scores")
	}

	return scores, nil
}

func insertedID(res *mongoLib.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}
