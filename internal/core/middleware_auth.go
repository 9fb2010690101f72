package core

import (
	"context"
	"net/http"
	"strings"

	"aquareport/internal/types"
)

// IdentityVerifier resolves a caller ID token to a verified Caller identity.
// Implementations must return a *types.AppError with code unauthenticated for
// any token they cannot accept.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*types.Caller, error)
}

// publicPaths are exempt from authentication. The liveness probe must answer
// regardless of caller identity.
var publicPaths = map[string]struct{}{
	"/health": {},
}

// AuthMiddleware enforces caller identity on all non-public routes. It
// extracts the bearer token from the Authorization header, verifies it, and
// stores the resulting Caller in the request context for handlers.
//
// A nil Verifier disables authentication entirely. That mode exists for
// handler tests that inject the Caller directly; production wiring always
// sets a Verifier.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, public := publicPaths[r.URL.Path]; public {
			next.ServeHTTP(w, r)
			return
		}

		if s.Verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(r)
		caller, err := s.Verifier.Verify(r.Context(), token)
		if err != nil {
			Error(w, r, err)
			return
		}

		ctx := types.WithCaller(r.Context(), *caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken pulls the token out of an "Authorization: Bearer <tok>"
// header. It returns "" when the header is absent or uses another scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
