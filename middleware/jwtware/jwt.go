package jwtware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
)

const (
	defaultAuthScheme = "Bearer"
	defaultContextKey = "user"
)

// Config configures the request interceptor
type Config struct {
	// Decoder turns a validated token into claims. Required.
	Decoder auth.TokenDecoder
	// TokenValidator defaults to a validator wrapping Decoder
	TokenValidator auth.TokenValidator
	Clock          auth.Clock
	Header         string
	AuthScheme     string
	// ContextKey is the fiber locals key holding the *auth.Principal
	ContextKey string
	// PublicPaths are exact request paths that proceed without identity
	PublicPaths []string
	// PublicPrefixes are path prefixes that proceed without identity
	PublicPrefixes []string
	// Unauthenticated answers protected requests that carry no identity
	Unauthenticated fiber.Handler
	Logger          auth.Logger
}

// New returns the request interceptor. Every request leaves it with either
// the principal of a valid token or an explicit empty identity on its user
// context, so nothing leaks between requests served by the same worker.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		ctx := auth.WithoutIdentity(c.UserContext())
		c.Locals(cfg.ContextKey, nil)

		var principal *auth.Principal
		if raw, ok := ExtractBearer(c.Get(cfg.Header), cfg.AuthScheme); ok {
			principal = cfg.resolve(raw, cfg.Clock())
		}

		if principal != nil {
			ctx = auth.WithIdentity(ctx, principal)
			c.Locals(cfg.ContextKey, principal)
		}
		c.SetUserContext(ctx)

		if principal == nil && !cfg.isPublic(c.Path()) {
			return cfg.Unauthenticated(c)
		}

		return c.Next()
	}
}

func (cfg Config) resolve(raw string, now time.Time) *auth.Principal {
	if !cfg.TokenValidator.Validate(raw, now) {
		return nil
	}

	claims, err := cfg.Decoder.Decode(raw, now)
	if err != nil {
		cfg.Logger.Debug("jwt decode after validation failed", "error", err)
		return nil
	}

	principal := auth.PrincipalFromClaims(claims)
	if principal == nil || principal.Username == "" {
		return nil
	}

	cfg.Logger.Debug("jwt identity attached", "username", principal.Username)
	return principal
}

func (cfg Config) isPublic(path string) bool {
	for _, p := range cfg.PublicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.PublicPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GetDefaultConfig fills unset fields. It panics when no Decoder is given.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Decoder == nil {
		panic("AUTH: JWT middleware configuration: Decoder is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	if cfg.TokenValidator == nil {
		cfg.TokenValidator = auth.NewTokenValidator(cfg.Decoder, cfg.Logger)
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	if cfg.Header == "" {
		cfg.Header = fiber.HeaderAuthorization
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}

	if cfg.Unauthenticated == nil {
		cfg.Unauthenticated = EntryPoint
	}

	return cfg
}

// ExtractBearer returns the token following "<scheme> " in header. The
// scheme match is case sensitive and exactly one space must follow it.
func ExtractBearer(header, scheme string) (string, bool) {
	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	raw := header[len(prefix):]
	if raw == "" {
		return "", false
	}
	return raw, true
}

// PrincipalFromLocals returns the principal stored by the interceptor
func PrincipalFromLocals(c *fiber.Ctx, key string) (*auth.Principal, bool) {
	if key == "" {
		key = defaultContextKey
	}
	p, ok := c.Locals(key).(*auth.Principal)
	return p, ok && p != nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
