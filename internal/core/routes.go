package core

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// requestTimeout caps each invocation just under the hosting platform's own
// 30s limit so we surface our error envelope instead of the platform's.
const requestTimeout = 29 * time.Second

// redactedHeaders are never logged verbatim by the request logger. The
// Authorization header carries the caller ID token.
var redactedHeaders = []string{"Authorization", "Cookie", "X-Api-Key"}

// MountRoutes assembles the middleware chain and mounts all route groups on
// the server's router. Middleware ordering:
//
//  1. Recoverer (outermost, catches panics in everything below)
//  2. ContextTimeoutMiddleware
//  3. RequestIDMiddleware
//  4. SecurityHeadersMiddleware
//  5. RequestLogger
//  6. CORS
//  7. AuthMiddleware
//
// The liveness probe mounts at /health, outside /v1 and exempt from auth.
// Domain handlers mount under /v1 through V1RouteRegistrars.
func (s *Server) MountRoutes() {
	r := s.router

	r.Use(s.Recoverer)
	r.Use(ContextTimeoutMiddleware(requestTimeout))
	r.Use(RequestIDMiddleware)
	r.Use(s.SecurityHeadersMiddleware)
	r.Use(RequestLogger(s.Logger, redactedHeaders))
	r.Use(NewCORSMiddleware(s.Config.Security.CorsAllowedOrigins))
	r.Use(s.AuthMiddleware)

	r.Get("/health", s.HandleHealth)

	r.Route("/v1", func(v1 chi.Router) {
		for _, register := range s.V1RouteRegistrars {
			register(v1)
		}
	})
}
