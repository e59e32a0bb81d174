package http

import (
	"net/http"
	"strings"

	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
)

// ContentTypeJSON rejects JSON-bearing requests with the wrong content type
// before they reach a handler.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteError(w, r,
					apperrors.InvalidInput("Content-Type must be application/json"), nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
