package http

import (
	"log/slog"
	"net/http"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/validator"
)

// UserHandler serves registration, session, and profile endpoints.
type UserHandler struct {
	users   *service.UserService
	ratings *service.RatingService
	log     *slog.Logger
}

// NewUserHandler creates a user handler.
func NewUserHandler(users *service.UserService, ratings *service.RatingService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, ratings: ratings, log: log}
}

type sessionResponse struct {
	User   any `json:"user"`
	Tokens any `json:"tokens"`
}

// Register handles POST /api/v1/auth/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, pair, err := h.users.Register(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: sessionResponse{User: user, Tokens: pair},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, pair, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: sessionResponse{User: user, Tokens: pair},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	pair, err := h.users.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pair})
}

// Logout handles POST /api/v1/auth/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.users.Logout(r.Context(), in.RefreshToken); err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.log)
		return
	}

	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.log)
		return
	}

	var in service.UpdateProfileInput
	if err := validator.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// History handles GET /api/v1/users/me/history.
func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.log)
		return
	}

	result, err := h.ratings.History(r.Context(), userID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
