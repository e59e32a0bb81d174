// Package memory provides an in-process storage backend for development and
// tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
)

type object struct {
	contentType string
	data        []byte
}

// Storage keeps objects in a map. Contents are lost on restart.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New creates an in-memory storage. baseURL prefixes returned object URLs.
func New(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]object),
		baseURL: baseURL,
	}
}

// Upload stores the object bytes under the given key.
func (s *Storage) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(in.Body, storage.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if int64(len(data)) > storage.MaxUploadSize {
		return nil, apperrors.InvalidInput("file exceeds the 5MB upload limit")
	}

	s.mu.Lock()
	s.objects[in.Key] = object{contentType: in.ContentType, data: data}
	s.mu.Unlock()

	return &storage.UploadResult{
		Key: in.Key,
		URL: s.baseURL + "/" + in.Key,
	}, nil
}

// Delete removes an object. Deleting an unknown key is not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object's content type and bytes. Used in tests.
func (s *Storage) Get(key string) (string, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.contentType, obj.data, ok
}
