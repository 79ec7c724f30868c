package rbac

import (
	"log/slog"
	"net/http"

	"github.com/sentinel-id/sentinel/internal/platform/httpx"
	"github.com/sentinel-id/sentinel/internal/shared"
)

// Middleware wires authorization checks for HTTP handlers. The auth gate only
// attaches (or withholds) a principal; these middlewares decide 401 vs 403.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAuthenticated rejects requests without an attached principal.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.PrincipalFromContext(r.Context()); !ok {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission ensures the principal carries every listed permission.
// Unauthenticated requests get 401, authenticated ones missing a permission
// get 403.
func (m Middleware) RequirePermission(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			for _, p := range perms {
				if !principal.HasAuthority(string(p)) {
					if m.Logger != nil {
						m.Logger.Warn("permission denied",
							slog.String("email", principal.Email()),
							slog.String("permission", string(p)),
							slog.String("path", r.URL.Path),
						)
					}
					httpx.RespondError(w, shared.ErrAccessDenied)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
