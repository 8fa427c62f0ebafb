package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, msg RegisterUserMessage) (*User, error)
	CurrentUser(ctx context.Context) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAuthScheme() string
	GetContextKey() string
	GetDefaultAuthority() string
	GetDeterministicIDs() bool
}

// CredentialStore maps usernames to identity records. Records returned by
// FindByUsername must carry their authorities.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Clock returns the current time. Tests pin it to make expiry deterministic.
type Clock func() time.Time

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] AUTH " + formatLine(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] AUTH " + formatLine(msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println("[WRN] AUTH " + formatLine(msg, args...))
}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] AUTH " + formatLine(msg, args...))
}

func formatLine(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteString(" ")
		if i+1 < len(args) {
			fmt.Fprintf(&b, "%v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, "%v", args[i])
		}
	}
	return b.String()
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
