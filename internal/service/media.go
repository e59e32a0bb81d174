package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
)

// MediaService handles product image uploads.
type MediaService struct {
	store storage.Storage
	log   *slog.Logger
}

// NewMediaService creates a media service.
func NewMediaService(store storage.Storage, log *slog.Logger) *MediaService {
	return &MediaService{store: store, log: log}
}

// UploadMediaInput describes one incoming file.
type UploadMediaInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates and stores a product image for the calling producer.
// Only image content types are accepted, capped at 5MB.
func (s *MediaService) Upload(ctx context.Context, producerID string, in UploadMediaInput) (*storage.UploadResult, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, apperrors.InvalidInput("only image uploads are accepted")
	}
	if in.Size <= 0 {
		return nil, apperrors.InvalidInput("file is empty")
	}
	if in.Size > storage.MaxUploadSize {
		return nil, apperrors.InvalidInput("file exceeds the 5MB upload limit")
	}

	ext := strings.ToLower(path.Ext(in.FileName))
	key := fmt.Sprintf("products/%s/%s%s", producerID, uuid.NewString(), ext)

	result, err := s.store.Upload(ctx, storage.UploadInput{
		Key:         key,
		ContentType: in.ContentType,
		Size:        in.Size,
		Body:        io.LimitReader(in.Body, storage.MaxUploadSize),
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("media uploaded",
		"key", result.Key,
		"content_type", in.ContentType,
		"size", in.Size,
	)
	return result, nil
}

// Delete removes a previously uploaded object.
func (s *MediaService) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
