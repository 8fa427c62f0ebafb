package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-auth-jwt"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaims_Subject(t *testing.T) {
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user123",
		},
	}

	assert.Equal(t, "user123", claims.Subject())
}

func TestJWTClaims_Authorities(t *testing.T) {
	tests := []struct {
		name  string
		claim string
		want  []string
	}{
		{name: "empty", claim: "", want: []string{}},
		{name: "blank", claim: "  ", want: []string{}},
		{name: "single", claim: "ROLE_USER", want: []string{"ROLE_USER"}},
		{name: "sorted", claim: "ROLE_USER,ROLE_ADMIN", want: []string{"ROLE_ADMIN", "ROLE_USER"}},
		{name: "trimmed and de-duplicated", claim: "ROLE_USER, ROLE_USER ,,ROLE_ADMIN", want: []string{"ROLE_ADMIN", "ROLE_USER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &auth.JWTClaims{Auth: tt.claim}
			assert.Equal(t, tt.want, claims.Authorities())
		})
	}
}

func TestJWTClaims_HasAuthority(t *testing.T) {
	claims := &auth.JWTClaims{Auth: "ROLE_ADMIN,ROLE_USER"}

	assert.True(t, claims.HasAuthority("ROLE_ADMIN"))
	assert.True(t, claims.HasAuthority("ROLE_USER"))
	assert.False(t, claims.HasAuthority("ROLE_ROOT"))
	assert.False(t, claims.HasAuthority(""))
}

func TestJWTClaims_Times(t *testing.T) {
	t.Run("returns registered times", func(t *testing.T) {
		iat := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
		exp := iat.Add(time.Hour)
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(iat),
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}

		assert.True(t, claims.IssuedAt().Equal(iat))
		assert.True(t, claims.Expires().Equal(exp))
	})

	t.Run("zero when absent", func(t *testing.T) {
		claims := &auth.JWTClaims{}
		assert.True(t, claims.IssuedAt().IsZero())
		assert.True(t, claims.Expires().IsZero())
	})
}
