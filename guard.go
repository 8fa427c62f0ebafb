package auth

import "context"

// RequireAuthenticated returns the principal attached to ctx or
// ErrUnauthenticated when there is none.
func RequireAuthenticated(ctx context.Context) (*Principal, error) {
	p, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// RequireAuthority checks that the principal in ctx holds at least one of
// authorities. No identity yields ErrUnauthenticated, a missing authority
// yields ErrForbidden. Calling it with no authorities only requires an identity.
func RequireAuthority(ctx context.Context, authorities ...string) (*Principal, error) {
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if len(authorities) == 0 {
		return p, nil
	}

	if !p.HasAnyAuthority(authorities...) {
		return nil, ErrForbidden
	}

	return p, nil
}
