// Package model defines the persisted entities of the game media API.
package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetKind selects which collection and extension allow-list an asset uses.
type AssetKind string

const (
	AssetKindSprite AssetKind = "sprite"
	AssetKindAudio  AssetKind = "audio"
)

const (
	ColSprites    = "sprites"
	ColAudioFiles = "audio_files"
	ColScores     = "scores"
)

var (
	// ImageExtensions is the allow-list for sprite uploads.
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}
	// AudioExtensions is the allow-list for audio uploads.
	AudioExtensions = []string{".mp3", ".wav", ".ogg"}
)

// Collection returns the collection name for the kind.
func (k AssetKind) Collection() string {
	switch k {
	case AssetKindSprite:
		return ColSprites
	case AssetKindAudio:
		return ColAudioFiles
	default:
		return ""
	}
}

// AllowedExtensions returns the allow-list for the kind.
func (k AssetKind) AllowedExtensions() []string {
	switch k {
	case AssetKindSprite:
		return ImageExtensions
	case AssetKindAudio:
		return AudioExtensions
	default:
		return nil
	}
}

// Valid reports whether k is a known kind.
func (k AssetKind) Valid() bool {
	return k.Collection() != ""
}

// Asset is an uploaded binary file, either a sprite or an audio clip.
type Asset struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Filename string             `bson:"filename" json:"filename"`
	Content  []byte             `bson:"content" json:"content"`
}
