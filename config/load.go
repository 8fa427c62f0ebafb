package config

import (
	"os"
	"strings"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix namespaces environment overrides, e.g.
// AUTHD_AUTH__SIGNING_KEY sets auth.signing_key
const DefaultEnvPrefix = "AUTHD_"

// Defaults are the lowest priority configuration layer
func Defaults() map[string]any {
	return map[string]any{
		"server.address":          ":8080",
		"server.public_paths":     []string{"/api/hello", "/api/authenticate", "/api/signup"},
		"server.public_prefixes":  []string{"/console"},
		"server.shutdown_timeout": "10s",

		"auth.signing_method":    auth.DefaultSigningMethod,
		"auth.token_ttl":         "1h",
		"auth.auth_scheme":       "Bearer",
		"auth.context_key":       "user",
		"auth.default_authority": "ROLE_USER",
		"auth.bcrypt_cost":       12,

		"persistence.driver":  "sqlite",
		"persistence.dsn":     "file:authd.db?cache=shared",
		"persistence.migrate": true,

		"throttle.enabled": true,
		"throttle.rate":    1.0 / 12.0,
		"throttle.burst":   5,
		"throttle.ttl":     "10m",
	}
}

type loader struct {
	files     []string
	dotenv    []string
	envPrefix string
	overrides map[string]any
}

// Option configures Load
type Option func(*loader)

// WithFile adds a JSON file layer. Missing files are skipped.
func WithFile(path string) Option {
	return func(l *loader) {
		if path != "" {
			l.files = append(l.files, path)
		}
	}
}

// WithDotEnv loads a .env file into the process environment before the
// environment layer is read. Missing files are skipped.
func WithDotEnv(path string) Option {
	return func(l *loader) {
		if path != "" {
			l.dotenv = append(l.dotenv, path)
		}
	}
}

// WithEnvPrefix changes the environment prefix
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithOverrides adds a top priority layer of dotted keys
func WithOverrides(values map[string]any) Option {
	return func(l *loader) {
		l.overrides = values
	}
}

// Load resolves defaults, files, .env and environment, in that order,
// and validates the result.
func Load(opts ...Option) (*Config, error) {
	l := &loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load config defaults")
	}

	for _, path := range l.files {
		if !exists(path) {
			continue
		}
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to load config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	for _, path := range l.dotenv {
		if !exists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to load dotenv file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	if l.envPrefix != "" {
		if err := k.Load(env.Provider(l.envPrefix, ".", envKey(l.envPrefix)), nil); err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load environment")
		}
	}

	if len(l.overrides) > 0 {
		if err := k.Load(confmap.Provider(l.overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load config overrides")
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

// envKey maps AUTHD_AUTH__TOKEN_TTL to auth.token_ttl
func envKey(prefix string) func(string) string {
	return func(key string) string {
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
