// Package service implements the media and score use cases.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/Laisky/game-media-api/internal/web/game/dao"
	"github.com/Laisky/game-media-api/internal/web/game/dto"
	"github.com/Laisky/game-media-api/internal/web/game/model"
)

// Service validates input and talks to the store.
//
// Every failure is a *model.Error: input codes for rejected client data
// (nothing is written), ErrCodeStorage for anything the store could not do.
type Service struct {
	store    dao.Store
	settings Settings
	validate *validator.Validate
}

// New creates a Service.
func New(store dao.Store, settings Settings) *Service {
	return &Service{
		store:    store,
		settings: settings,
		validate: newValidator(),
	}
}

// Settings returns the active settings.
func (s *Service) Settings() Settings {
	return s.settings
}

// UploadSprite stores an image and returns its id.
func (s *Service) UploadSprite(ctx context.Context, filename string, content io.Reader) (string, error) {
	return s.uploadAsset(ctx, model.AssetKindSprite, filename, content)
}

// UploadAudio stores an audio clip and returns its id.
func (s *Service) UploadAudio(ctx context.Context, filename string, content io.Reader) (string, error) {
	return s.uploadAsset(ctx, model.AssetKindAudio, filename, content)
}

func (s *Service) uploadAsset(ctx context.Context, kind model.AssetKind, filename string, content io.Reader) (string, error) {
	if s.settings.ValidationEnabled {
		if err := validateFileUpload(kind, filename); err != nil {
			return "", err
		}
	}

	data, err := s.readUpload(content)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.store.InsertAsset(ctx, kind, &model.Asset{Filename: filename, Content: data})
	if err != nil {
		return "", model.NewStorageError(fmt.Sprintf("insert %s", kind), err)
	}

	return id.Hex(), nil
}

// readUpload buffers the whole upload in memory. Without MaxUploadBytes
// the size is unbounded.
func (s *Service) readUpload(content io.Reader) ([]byte, error) {
	limit := s.settings.MaxUploadBytes
	if limit <= 0 {
		data, err := io.ReadAll(content)
		if err != nil {
			return nil, model.NewStorageError("read upload", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(content, limit+1))
	if err != nil {
		return nil, model.NewStorageError("read upload", err)
	}
	if int64(len(data)) > limit {
		return nil, model.NewUploadTooLargeError(limit)
	}

	return data, nil
}

// DecodeScoreSubmission parses a JSON score payload using the configured
// unknown-field policy.
func (s *Service) DecodeScoreSubmission(body io.Reader) (*dto.ScoreSubmission, error) {
	return decodeScoreSubmission(body, s.settings.ForbidUnknownFields)
}

// SubmitScore validates and stores a score, returning its id.
func (s *Service) SubmitScore(ctx context.Context, sub *dto.ScoreSubmission) (string, error) {
	if sub == nil {
		return "", model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload",
			missingField("player_id"), missingField("score"))
	}
	if err := s.checkScoreSubmission(sub); err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.store.InsertScore(ctx, &model.Score{PlayerID: *sub.PlayerID, Score: *sub.Score})
	if err != nil {
		return "", model.NewStorageError("insert score", err)
	}

	return id.Hex(), nil
}

// ListSprites returns every stored sprite.
func (s *Service) ListSprites(ctx context.Context) ([]*model.Asset, error) {
	return s.listAssets(ctx, model.AssetKindSprite)
}

// ListAudio returns every stored audio clip.
func (s *Service) ListAudio(ctx context.Context) ([]*model.Asset, error) {
	return s.listAssets(ctx, model.AssetKindAudio)
}

func (s *Service) listAssets(ctx context.Context, kind model.AssetKind) ([]*model.Asset, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	assets, err := s.store.ListAssets(ctx, kind)
	if err != nil {
		return nil, model.NewStorageError(fmt.Sprintf("list %s", kind), err)
	}
	return assets, nil
}

// ListScores returns every stored score.
func (s *Service) ListScores(ctx context.Context) ([]*model.Score, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	scores, err := s.store.ListScores(ctx)
	if err != nil {
		return nil, model.NewStorageError("list scores", err)
	}
	return scores, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.settings.RequestTimeout)
}
