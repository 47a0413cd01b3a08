// Package api implements the LifeMirror REST API using chi.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lifemirror/lifemirror/internal/identity"
)

// AuthMiddleware resolves the caller's bearer credential to an owner id and
// stores it in the request context. Rejected credentials get 401 before any
// handler runs.
func AuthMiddleware(v identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, err := v.Verify(r.Context(), bearerToken(r))
			if err != nil {
				slog.Debug("authentication failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				w.Header().Set("WWW-Authenticate", `Bearer realm="lifemirror"`)
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithOwner(r.Context(), owner)))
		})
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func ownerFrom(r *http.Request) (string, bool) {
	return identity.Owner(r.Context())
}
