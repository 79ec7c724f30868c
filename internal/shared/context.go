package shared

import "context"

// Principal is the authenticated identity attached to a request by the auth
// gate. It is transient, built per request from a validated token, and never
// persisted.
type Principal struct {
	email       string
	authorities []string
}

// NewPrincipal builds a principal for the given subject and permission set.
func NewPrincipal(email string, authorities []string) Principal {
	return Principal{email: email, authorities: authorities}
}

// Email returns the subject email.
func (p Principal) Email() string { return p.email }

// Authorities returns the permission strings carried by the principal.
func (p Principal) Authorities() []string { return p.authorities }

// HasAuthority reports whether the principal carries the given permission.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.authorities {
		if a == authority {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in the request context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from the context. The second
// return is false when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
