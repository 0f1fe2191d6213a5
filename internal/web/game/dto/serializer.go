package dto

import (
	"encoding/base64"

	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/game-media-api/internal/web/game/model"
)

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: primitive.ObjectID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(primitive.ObjectID).Hex(), nil
			},
		},
		{
			SrcType: []byte{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return base64.StdEncoding.EncodeToString(src.([]byte)), nil
			},
		},
	},
}

// NewAssets converts stored assets to their transport form.
// The result is never nil.
func NewAssets(assets []*model.Asset) ([]Asset, error) {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		var item Asset
		if err := copier.CopyWithOption(&item, a, copyOption); err != nil {
			return nil, errors.Wrapf(err, "copy asset %s", a.ID.Hex())
		}
		out = append(out, item)
	}

	return out, nil
}

// NewScores converts stored scores to their transport form.
// The result is never nil.
func NewScores(scores []*model.Score) ([]Score, error) {
	out := make([]Score, 0, len(scores))
	for _, s := range scores {
		var item Score
		if err := copier.CopyWithOption(&item, s, copyOption); err != nil {
			return nil, errors.Wrapf(err, "copy score %s", s.ID.Hex())
		}
		out = append(out, item)
	}

	return out, nil
}
