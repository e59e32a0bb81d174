package memory

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
)

func TestStorage_UploadAndGet(t *testing.T) {
	s := New("http://localhost:8080/media")

	res, err := s.Upload(context.Background(), storage.UploadInput{
		Key:         "products/TRCAAA/photo.jpg",
		ContentType: "image/jpeg",
		Body:        bytes.NewReader([]byte("fake-jpeg-bytes")),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/products/TRCAAA/photo.jpg", res.URL)

	contentType, data, ok := s.Get("products/TRCAAA/photo.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("fake-jpeg-bytes"), data)
}

func TestStorage_UploadTooLarge(t *testing.T) {
	s := New("http://localhost:8080/media")

	big := strings.NewReader(strings.Repeat("x", storage.MaxUploadSize+1))
	_, err := s.Upload(context.Background(), storage.UploadInput{
		Key:         "products/TRCAAA/huge.jpg",
		ContentType: "image/jpeg",
		Body:        big,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestStorage_Delete(t *testing.T) {
	s := New("http://localhost:8080/media")

	_, err := s.Upload(context.Background(), storage.UploadInput{
		Key:  "k",
		Body: bytes.NewReader([]byte("data")),
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "k"))
	_, _, ok := s.Get("k")
	assert.False(t, ok)

	assert.NoError(t, s.Delete(context.Background(), "missing"))
}
