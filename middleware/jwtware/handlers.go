package jwtware

import (
	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
)

// EntryPoint answers a protected request that has no identity with 401
func EntryPoint(c *fiber.Ctx) error {
	return auth.WriteError(c, auth.ErrUnauthenticated)
}

// AccessDenied answers an authenticated request lacking authority with 403
func AccessDenied(c *fiber.Ctx) error {
	return auth.WriteError(c, auth.ErrForbidden)
}

// RequireAuthority guards a route. The principal must hold at least one of
// authorities. It must run after the interceptor.
func RequireAuthority(authorities ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.RequireAuthority(c.UserContext(), authorities...); err != nil {
			if auth.IsForbiddenError(err) {
				return AccessDenied(c)
			}
			return EntryPoint(c)
		}
		return c.Next()
	}
}
