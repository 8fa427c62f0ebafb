package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-auth-jwt"
)

// Config is the service configuration
type Config struct {
	Server      Server      `koanf:"server" json:"server"`
	Auth        Auth        `koanf:"auth" json:"auth"`
	Persistence Persistence `koanf:"persistence" json:"persistence"`
	Throttle    Throttle    `koanf:"throttle" json:"throttle"`
}

type Server struct {
	Address         string        `koanf:"address" json:"address"`
	PublicPaths     []string      `koanf:"public_paths" json:"public_paths"`
	PublicPrefixes  []string      `koanf:"public_prefixes" json:"public_prefixes"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// Auth holds token and account options. It satisfies auth.Config.
type Auth struct {
	SigningKey       string        `koanf:"signing_key" json:"signing_key"`
	SigningMethod    string        `koanf:"signing_method" json:"signing_method"`
	TokenTTL         time.Duration `koanf:"token_ttl" json:"token_ttl"`
	Issuer           string        `koanf:"issuer" json:"issuer"`
	AuthScheme       string        `koanf:"auth_scheme" json:"auth_scheme"`
	ContextKey       string        `koanf:"context_key" json:"context_key"`
	DefaultAuthority string        `koanf:"default_authority" json:"default_authority"`
	BcryptCost       int           `koanf:"bcrypt_cost" json:"bcrypt_cost"`
	DeterministicIDs bool          `koanf:"deterministic_ids" json:"deterministic_ids"`
}

type Persistence struct {
	Driver  string `koanf:"driver" json:"driver"`
	DSN     string `koanf:"dsn" json:"dsn"`
	Migrate bool   `koanf:"migrate" json:"migrate"`
}

// Throttle limits login attempts per client
type Throttle struct {
	Enabled bool          `koanf:"enabled" json:"enabled"`
	Rate    float64       `koanf:"rate" json:"rate"`
	Burst   int           `koanf:"burst" json:"burst"`
	TTL     time.Duration `koanf:"ttl" json:"ttl"`
}

var _ auth.Config = Auth{}

// MinSigningKeyLength is the shortest HMAC secret accepted
const MinSigningKeyLength = 32

// Validate checks every section
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Auth),
		validation.Field(&c.Persistence),
		validation.Field(&c.Throttle),
	)
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required),
		validation.Field(&s.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(MinSigningKeyLength, 0)),
		validation.Field(&a.SigningMethod, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&a.TokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&a.AuthScheme, validation.Required),
		validation.Field(&a.DefaultAuthority, validation.Required),
	)
}

// DriverMemory keeps accounts in process, for local runs
const DriverMemory = "memory"

func (p Persistence) Validate() error {
	dsnRules := []validation.Rule{}
	if p.Driver != DriverMemory {
		dsnRules = append(dsnRules, validation.Required)
	}
	return validation.ValidateStruct(&p,
		validation.Field(&p.Driver, validation.Required, validation.In("sqlite", "postgres", DriverMemory)),
		validation.Field(&p.DSN, dsnRules...),
	)
}

func (t Throttle) Validate() error {
	if !t.Enabled {
		return nil
	}
	return validation.ValidateStruct(&t,
		validation.Field(&t.Rate, validation.Required, validation.Min(0.0)),
		validation.Field(&t.Burst, validation.Required, validation.Min(1)),
	)
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.Auth.SigningKey != "" {
		c.Auth.SigningKey = redacted
	}
	if c.Persistence.DSN != "" && c.Persistence.Driver == "postgres" {
		c.Persistence.DSN = redacted
	}
	c.Server.PublicPaths = append([]string(nil), c.Server.PublicPaths...)
	c.Server.PublicPrefixes = append([]string(nil), c.Server.PublicPrefixes...)
	return c
}

const redacted = "******"

func (c Config) GetServer() Server           { return c.Server }
func (c Config) GetAuth() Auth               { return c.Auth }
func (c Config) GetPersistence() Persistence { return c.Persistence }
func (c Config) GetThrottle() Throttle       { return c.Throttle }

func (a Auth) GetSigningKey() string       { return a.SigningKey }
func (a Auth) GetSigningMethod() string    { return a.SigningMethod }
func (a Auth) GetTokenTTL() time.Duration  { return a.TokenTTL }
func (a Auth) GetIssuer() string           { return a.Issuer }
func (a Auth) GetAuthScheme() string       { return a.AuthScheme }
func (a Auth) GetContextKey() string       { return a.ContextKey }
func (a Auth) GetDefaultAuthority() string { return a.DefaultAuthority }
func (a Auth) GetDeterministicIDs() bool   { return a.DeterministicIDs }
func (a Auth) GetBcryptCost() int          { return a.BcryptCost }

func (p Persistence) GetDriver() string { return p.Driver }
func (p Persistence) GetDSN() string    { return p.DSN }
