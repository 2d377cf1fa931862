package api

import (
	"net/http"

	"github.com/acervoapp/acervo-server/internal/http/response"
)

// rateLimitMiddleware rejects clients that exceed the per-IP request budget.
// RealIP runs earlier in the stack, so RemoteAddr already holds the client
// address rather than a proxy's.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(r.RemoteAddr) {
			response.Error(w, http.StatusTooManyRequests, "too many requests", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}
