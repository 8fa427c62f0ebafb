package auth_test

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-auth-jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserMessage_Validate(t *testing.T) {
	tests := []struct {
		name       string
		msg        auth.RegisterUserMessage
		wantFields []string
	}{
		{
			name: "valid",
			msg:  auth.RegisterUserMessage{Username: "alice", Password: "pw123", Nickname: "Alice"},
		},
		{
			name:       "all blank",
			msg:        auth.RegisterUserMessage{},
			wantFields: []string{"username", "password", "nickname"},
		},
		{
			name:       "short username",
			msg:        auth.RegisterUserMessage{Username: "al", Password: "pw123", Nickname: "Alice"},
			wantFields: []string{"username"},
		},
		{
			name:       "long nickname",
			msg:        auth.RegisterUserMessage{Username: "alice", Password: "pw123", Nickname: strings.Repeat("n", 51)},
			wantFields: []string{"nickname"},
		},
		{
			name:       "long password",
			msg:        auth.RegisterUserMessage{Username: "alice", Password: strings.Repeat("p", 101), Nickname: "Alice"},
			wantFields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var fieldErrs validation.Errors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Len(t, fieldErrs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fieldErrs, f)
			}
		})
	}
}

func TestLoginMessage_Validate(t *testing.T) {
	assert.NoError(t, auth.LoginMessage{Username: "alice", Password: "pw123"}.Validate())

	var fieldErrs validation.Errors
	require.ErrorAs(t, auth.LoginMessage{Username: "alice"}.Validate(), &fieldErrs)
	assert.Contains(t, fieldErrs, "password")
	assert.NotContains(t, fieldErrs, "username")
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "user.register", auth.RegisterUserMessage{}.Type())
	assert.Equal(t, "user.login", auth.LoginMessage{}.Type())
}
