package dto

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/game-media-api/internal/web/game/model"
)

func TestNewAssets(t *testing.T) {
	id := primitive.NewObjectID()
	content := []byte{0x00, 0x01, 0xfe, 0xff, 'O', 'g', 'g'}

	out, err := NewAssets([]*model.Asset{{ID: id, Filename: "theme.ogg", Content: content}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, id.Hex(), out[0].ID)
	require.Len(t, out[0].ID, 24)
	require.Equal(t, "theme.ogg", out[0].Filename)

	decoded, err := base64.StdEncoding.DecodeString(out[0].Content)
	require.NoError(t, err)
	require.Equal(t, content, decoded)
}

func TestNewScores(t *testing.T) {
	id := primitive.NewObjectID()
	out, err := NewScores([]*model.Score{{ID: id, PlayerID: "alice_01", Score: 42}})
	require.NoError(t, err)
	require.Equal(t, []Score{{ID: id.Hex(), PlayerID: "alice_01", Score: 42}}, out)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.JSONEq(t, `[{"_id":"`+id.Hex()+`","player_id":"alice_01","score":42}]`, string(raw))
}

func TestEmptyListsMarshalAsArray(t *testing.T) {
	assets, err := NewAssets(nil)
	require.NoError(t, err)
	scores, err := NewScores(nil)
	require.NoError(t, err)

	raw, err := json.Marshal(assets)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(scores)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}
