package auth_test

import (
	"strings"
	"testing"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password)

			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrNoEmptyString)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			err = auth.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	password := "testPassword123!"
	hash, err := hasher.HashPassword(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
			wantErr:  false,
		},
		{
			name:     "Wrong password",
			password: "wrongPassword",
			hash:     hash,
			wantErr:  true,
		},
		{
			name:     "Invalid hash",
			password: password,
			hash:     "invalidhash",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ComparePasswordAndHash(tt.password, tt.hash)

			if tt.wantErr {
				assert.Equal(t, auth.ErrInvalidCredentials, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewBcryptHasherCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, auth.NewBcryptHasher(bcrypt.MinCost).Cost)
	assert.Equal(t, 10, auth.NewBcryptHasher(10).Cost)

	fallback := auth.NewBcryptHasher(bcrypt.MaxCost + 1).Cost
	assert.GreaterOrEqual(t, fallback, bcrypt.MinCost)
	assert.LessOrEqual(t, fallback, bcrypt.MaxCost)
	assert.Equal(t, fallback, auth.NewBcryptHasher(0).Cost)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	hash1, err := hasher.HashPassword("same-password")
	assert.NoError(t, err)
	hash2, err := hasher.HashPassword("same-password")
	assert.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)

	cost, err := bcrypt.Cost([]byte(hash1))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPasswordTooLong(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.HashPassword(strings.Repeat("p", 73))
	assert.Error(t, err)

	status, body := auth.PublicErrorFrom(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, auth.TextCodePasswordTooLong, body.TextCode)
}
