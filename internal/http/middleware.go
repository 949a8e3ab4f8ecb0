package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/pkg/httpx"
	"github.com/taskward/taskward/pkg/slogx"
)

// Authenticator resolves a bearer token into a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type principalKey struct{}

// AuthnMiddleware validates the bearer token on every protected route and
// stows the resulting principal in the request context. Rejection happens
// here, uniformly, before any handler-level authorization logic runs.
func AuthnMiddleware(auth Authenticator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			principal, err := auth.Authenticate(ctx, raw)
			if err != nil {
				log.Warn("token rejected", "err", err)
				writeBearerError(w, "invalid token")
				return
			}

			ctx = context.WithValue(ctx, principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin principals. Runs after AuthnMiddleware.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFrom(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if !p.IsAdmin() {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
