package http

import (
	"log/slog"
	"net/http"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
)

// MediaHandler serves product image uploads.
type MediaHandler struct {
	media *service.MediaService
	log   *slog.Logger
}

// NewMediaHandler creates a media handler.
func NewMediaHandler(media *service.MediaService, log *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, log: log}
}

// Upload handles POST /api/v1/media. Producer role required. The file comes
// as multipart form data under the "file" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// The multipart reader itself is capped slightly above the limit so the
	// service can distinguish "too large" from a broken upload.
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+4096)

	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("file exceeds the 5MB upload limit"), h.log)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("multipart field 'file' is required"), h.log)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	result, err := h.media.Upload(r.Context(), middleware.UserIDFromContext(r.Context()),
		service.UploadMediaInput{
			FileName:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		})
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
