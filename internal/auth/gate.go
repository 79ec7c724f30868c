// Package auth verifies credentials, issues token pairs, and gates requests
// on bearer tokens.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/token"
)

const bearerPrefix = "Bearer "

// PublicRoutes is the fixed allow-list of path prefixes the gate skips.
// Requests elsewhere without a valid token proceed unauthenticated and are
// rejected downstream by the rbac middleware.
var PublicRoutes = []string{
	"/user/login",
	"/user/register",
	"/user/verify/code",
	"/user/resetPassword",
	"/user/verify/password",
	"/user/verify/account",
	"/user/refresh/token",
	"/healthz",
}

// Gate is the per-request authorization filter. It only ever attaches a
// principal or leaves the request untouched; it never writes a response.
type Gate struct {
	codec  *token.Codec
	logger *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(codec *token.Codec, logger *slog.Logger) *Gate {
	return &Gate{codec: codec, logger: logger}
}

// Middleware inspects the bearer token and, when it verifies, attaches the
// derived principal to the request context. Every extraction or validation
// failure degrades to "no authentication attached": malformed input never
// propagates past the gate.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.shouldBypass(r) {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := g.Authenticate(r)
		if err != nil {
			if g.logger != nil {
				g.logger.Debug("bearer token rejected",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

// Authenticate extracts and validates the request's bearer token, returning
// the principal it carries. Exported so the fail-closed contract stays
// auditable: every failure mode is a typed error here, which Middleware then
// swallows into "unauthenticated".
func (g *Gate) Authenticate(r *http.Request) (shared.Principal, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return shared.Principal{}, err
	}

	email, err := g.codec.Subject(raw)
	if err != nil {
		return shared.Principal{}, err
	}

	if !g.codec.IsValid(email, raw) {
		return shared.Principal{}, shared.ErrTokenInvalid
	}

	authorities, err := g.codec.Authorities(raw)
	if err != nil {
		return shared.Principal{}, err
	}

	return shared.NewPrincipal(email, authorities), nil
}

func (g *Gate) shouldBypass(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return true
	}
	if r.Method == http.MethodOptions {
		return true
	}
	for _, route := range PublicRoutes {
		if strings.HasPrefix(r.URL.Path, route) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", shared.ErrTokenInvalid
	}
	raw := strings.TrimPrefix(header, bearerPrefix)
	if raw == "" {
		return "", shared.ErrTokenInvalid
	}
	return raw, nil
}
