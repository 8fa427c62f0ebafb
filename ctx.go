package auth

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// Principal is the authenticated caller of a single request. It is derived
// from a validated token and lives only as long as the request context.
type Principal struct {
	Username    string
	Authorities []string
}

// PrincipalFromClaims builds a Principal from verified claims
func PrincipalFromClaims(claims AuthClaims) *Principal {
	if claims == nil {
		return nil
	}
	return &Principal{
		Username:    claims.Subject(),
		Authorities: claims.Authorities(),
	}
}

// HasAuthority reports whether the principal holds authority
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasAnyAuthority reports whether the principal holds at least one of authorities
func (p *Principal) HasAnyAuthority(authorities ...string) bool {
	for _, a := range authorities {
		if p.HasAuthority(a) {
			return true
		}
	}
	return false
}

// WithIdentity returns a copy of ctx carrying p. A nil p masks any identity
// an outer context might hold.
func WithIdentity(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityCtxKey, p)
}

// WithoutIdentity returns a copy of ctx with no identity visible
func WithoutIdentity(ctx context.Context) context.Context {
	return WithIdentity(ctx, nil)
}

// IdentityFromContext finds the principal in the context
func IdentityFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(identityCtxKey).(*Principal)
	return p, ok && p != nil
}

// CurrentUsername returns the username of the principal in ctx
func CurrentUsername(ctx context.Context) (string, bool) {
	p, ok := IdentityFromContext(ctx)
	if !ok || p.Username == "" {
		return "", false
	}
	return p.Username, true
}
