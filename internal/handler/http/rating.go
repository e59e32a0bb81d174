package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/validator"
)

// RatingHandler serves rating submission and aggregate endpoints.
type RatingHandler struct {
	ratings *service.RatingService
	log     *slog.Logger
}

// NewRatingHandler creates a rating handler.
func NewRatingHandler(ratings *service.RatingService, log *slog.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, log: log}
}

type submitRatingRequest struct {
	Score   int    `json:"score" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// Submit handles POST /api/v1/products/{code}/ratings. Authentication
// required; one rating per user per product.
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in submitRatingRequest
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, err := h.ratings.Submit(r.Context(), middleware.UserIDFromContext(r.Context()),
		service.SubmitRatingInput{
			ProductCode: chi.URLParam(r, "code"),
			Score:       in.Score,
			Comment:     in.Comment,
		})
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rating})
}

type ratingListResponse struct {
	Ratings any `json:"ratings"`
	Summary any `json:"summary"`
}

// List handles GET /api/v1/products/{code}/ratings.
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	result, summary, err := h.ratings.ListForProduct(r.Context(), chi.URLParam(r, "code"),
		pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ratingListResponse{Ratings: result, Summary: summary},
	})
}

// Summary handles GET /api/v1/products/{code}/ratings/summary.
func (h *RatingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ratings.Summary(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
