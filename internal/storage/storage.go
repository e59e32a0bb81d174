// Package storage abstracts where uploaded media bytes live.
package storage

import (
	"context"
	"io"
)

// MaxUploadSize caps a single media upload at 5 MiB.
const MaxUploadSize = 5 << 20

// UploadInput describes one object to store.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Storage stores and removes media objects.
type Storage interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
