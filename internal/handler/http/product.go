package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/validator"
)

// ProductHandler serves the product registry and catalog endpoints.
type ProductHandler struct {
	products *service.ProductService
	log      *slog.Logger
}

// NewProductHandler creates a product handler.
func NewProductHandler(products *service.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

// Create handles POST /api/v1/products. Producer role required.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterProductInput
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Register(r.Context(), middleware.UserIDFromContext(r.Context()), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Get handles GET /api/v1/products/{code}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.products.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// List handles GET /api/v1/products. Filters come from query parameters:
// search, recent, certified, rated.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:     q.Get("search"),
		Recent:     q.Get("recent") == "true",
		Certified:  q.Get("certified") == "true",
		Rated:      q.Get("rated") == "true",
		Pagination: pagination.FromRequest(r),
	}

	result, err := h.products.ListCatalog(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListMine handles GET /api/v1/producers/me/products. Producer role required.
func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	producerID := middleware.UserIDFromContext(r.Context())

	result, err := h.products.ListByProducer(r.Context(), producerID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Delete handles DELETE /api/v1/products/{code}. Producer role required; only
// the owner succeeds.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	requesterID := middleware.UserIDFromContext(r.Context())

	if err := h.products.Delete(r.Context(), code, requesterID); err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
