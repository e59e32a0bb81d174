package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
)

type authContextKey string

const (
	authUserIDKey authContextKey = "auth_user_id"
	authEmailKey  authContextKey = "auth_email"
	authRoleKey   authContextKey = "auth_role"
)

// TokenClaims carries the identity extracted from a verified access token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// TokenValidator verifies an access token and returns its claims.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
}

// Auth returns middleware that requires a valid Bearer access token. On
// success the user identity is stored in the request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing authorization header"), nil)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header format"), nil)
				return
			}

			claims, err := validator.ValidateAccessToken(parts[1])
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), nil)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, authUserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, authEmailKey, claims.Email)
			ctx = context.WithValue(ctx, authRoleKey, claims.Role)
			ctx = logger.WithUserID(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects authenticated requests whose
// role does not match. It must run after Auth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				httputil.WriteError(w, r, apperrors.Forbidden("insufficient permissions"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user ID, or "" when the request
// is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(authUserIDKey).(string); ok {
		return id
	}
	return ""
}

// EmailFromContext returns the authenticated user's email.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(authEmailKey).(string); ok {
		return email
	}
	return ""
}

// RoleFromContext returns the authenticated user's role.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(authRoleKey).(string); ok {
		return role
	}
	return ""
}
