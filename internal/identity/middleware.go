package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taihub/taihub/internal/shared"
)

// PrincipalFromContext resolves the acting principal from the request
// session. Missing or malformed session data yields the anonymous
// principal rather than an error.
func PrincipalFromContext(ctx context.Context) Principal {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return Anonymous()
	}
	raw := sess.Principal()
	if len(raw) == 0 {
		return Anonymous()
	}
	p, err := DecodePrincipal(raw)
	if err != nil {
		return Anonymous()
	}
	return p
}

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireMutate ensures the acting principal may mutate the domain.
func (m Middleware) RequireMutate(d Domain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if !CanMutate(p, d) {
				m.deny(w, r, p, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireView ensures the acting principal may view the domain.
func (m Middleware) RequireView(d Domain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if !CanView(p, d) {
				m.deny(w, r, p, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner restricts a route to the owner principal.
func (m Middleware) RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p.Role != RoleOwner {
				m.deny(w, r, p, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, p Principal, d Domain) {
	if m.Logger != nil {
		m.Logger.Warn("authorization denied",
			slog.String("path", r.URL.Path),
			slog.String("role", string(p.Role)),
			slog.String("domain", string(d)))
	}
	if p.IsAnonymous() {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
