package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthoritiesSeparator joins authority names inside the auth claim
const AuthoritiesSeparator = ","

// AuthClaims represents verified token claims
type AuthClaims interface {
	Subject() string
	Authorities() []string
	HasAuthority(authority string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	Auth string `json:"auth"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Authorities splits the auth claim into a sorted set
func (c *JWTClaims) Authorities() []string {
	return splitAuthorities(c.Auth)
}

// HasAuthority checks the auth claim for a single authority
func (c *JWTClaims) HasAuthority(authority string) bool {
	for _, a := range c.Authorities() {
		if a == authority {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func joinAuthorities(authorities []string) string {
	return strings.Join(normalizeAuthorities(authorities), AuthoritiesSeparator)
}

func splitAuthorities(claim string) []string {
	if strings.TrimSpace(claim) == "" {
		return []string{}
	}
	parts := strings.Split(claim, AuthoritiesSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return normalizeAuthorities(parts)
}
