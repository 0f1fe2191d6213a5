package service

import (
	"context"
	"sync"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/game-media-api/internal/web/game/model"
)

// memStore is an in-memory dao.Store for service tests.
type memStore struct {
	mu     sync.Mutex
	assets map[model.AssetKind][]*model.Asset
	scores []*model.Score
	err    error
}

func newMemStore() *memStore {
	return &memStore{assets: map[model.AssetKind][]*model.Asset{}}
}

func (m *memStore) InsertAsset(_ context.Context, kind model.AssetKind, asset *model.Asset) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}

	stored := *asset
	stored.ID = primitive.NewObjectID()
	m.assets[kind] = append(m.assets[kind], &stored)
	return stored.ID, nil
}

func (m *memStore) ListAssets(_ context.Context, kind model.AssetKind) ([]*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]*model.Asset{}, m.assets[kind]...), nil
}

func (m *memStore) InsertScore(_ context.Context, score *model.Score) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}

	stored := *score
	stored.ID = primitive.NewObjectID()
	m.scores = append(m.scores, &stored)
	return stored.ID, nil
}

func (m *memStore) ListScores(context.Context) ([]*model.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]*model.Score{}, m.scores...), nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.scores)
	for _, as := range m.assets {
		n += len(as)
	}
	return n
}

var errStoreDown = errors.New("server selection error: context deadline exceeded")
