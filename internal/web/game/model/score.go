package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Score is one recorded player score.
type Score struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PlayerID string             `bson:"player_id" json:"player_id"`
	Score    int64              `bson:"score" json:"score"`
}
