package auth_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicErrorFrom(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantMessage  string
		wantTextCode string
	}{
		{
			name:         "invalid credentials",
			err:          auth.ErrInvalidCredentials,
			wantStatus:   http.StatusUnauthorized,
			wantMessage:  auth.ErrInvalidCredentials.Message,
			wantTextCode: auth.TextCodeInvalidCreds,
		},
		{
			name:         "deactivated account looks like bad credentials",
			err:          auth.ErrAccountNotActivated,
			wantStatus:   http.StatusUnauthorized,
			wantMessage:  auth.ErrInvalidCredentials.Message,
			wantTextCode: auth.TextCodeInvalidCreds,
		},
		{
			name:         "wrapped duplicate",
			err:          fmt.Errorf("register: %w", auth.ErrDuplicateIdentity),
			wantStatus:   http.StatusConflict,
			wantMessage:  auth.ErrDuplicateIdentity.Message,
			wantTextCode: auth.TextCodeDuplicateIdentity,
		},
		{
			name:         "forbidden",
			err:          auth.ErrForbidden,
			wantStatus:   http.StatusForbidden,
			wantMessage:  auth.ErrForbidden.Message,
			wantTextCode: auth.TextCodeForbidden,
		},
		{
			name:         "category without code",
			err:          goerrors.New("no such thing", goerrors.CategoryNotFound),
			wantStatus:   http.StatusNotFound,
			wantMessage:  "no such thing",
		},
		{
			name:        "internal rich error hides message",
			err:         goerrors.New("pq: relation users does not exist", goerrors.CategoryInternal),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "an unexpected server error occurred",
		},
		{
			name:        "fiber error",
			err:         fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "fiber server error",
			err:         fiber.ErrServiceUnavailable,
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "an unexpected server error occurred",
		},
		{
			name:        "plain error",
			err:         errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "an unexpected server error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := auth.PublicErrorFrom(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.Equal(t, tt.wantTextCode, body.TextCode)
			assert.Empty(t, body.Fields)
		})
	}
}

func TestPublicErrorFrom_ValidationFields(t *testing.T) {
	err := validation.Errors{
		"username": errors.New("the length must be between 3 and 50"),
		"password": errors.New("cannot be blank"),
		"nickname": nil,
	}

	status, body := auth.PublicErrorFrom(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.TextCode)
	assert.Len(t, body.Fields, 2)
	assert.Equal(t, "cannot be blank", body.Fields["password"])
	assert.Contains(t, body.Fields, "username")
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler(nopLogger{}),
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return auth.ErrDuplicateIdentity
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("secret internals")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantError  string
	}{
		{"/conflict", http.StatusConflict, auth.ErrDuplicateIdentity.Message},
		{"/boom", http.StatusInternalServerError, "an unexpected server error occurred"},
		{"/missing", http.StatusNotFound, "Cannot GET /missing"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body auth.PublicError
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotContains(t, string(raw), "secret internals")
		})
	}
}
