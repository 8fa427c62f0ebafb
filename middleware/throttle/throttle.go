package throttle

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
	"golang.org/x/time/rate"
)

// Config configures the per client login throttle
type Config struct {
	// Rate is the number of attempts refilled per second
	Rate float64
	// Burst is the number of attempts allowed at once
	Burst int
	// TTL evicts clients not seen for this long
	TTL time.Duration
	// KeyFunc identifies a client, defaults to c.IP()
	KeyFunc func(*fiber.Ctx) string
	Clock   auth.Clock
	Logger  auth.Logger
}

// DefaultConfig allows a burst of 5 attempts refilling one every 12s
var DefaultConfig = Config{
	Rate:  1.0 / 12.0,
	Burst: 5,
	TTL:   10 * time.Minute,
}

// Limiter keeps one token bucket per client key
type Limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	clock   auth.Clock
	entries map[string]*bucket
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLimiter builds a Limiter, zero values fall back to DefaultConfig
func NewLimiter(cfg Config) *Limiter {
	cfg = withDefaults(cfg)
	return &Limiter{
		limit:   rate.Limit(cfg.Rate),
		burst:   cfg.Burst,
		ttl:     cfg.TTL,
		clock:   cfg.Clock,
		entries: make(map[string]*bucket),
	}
}

// Allow consumes one attempt for key
func (m *Limiter) Allow(key string) bool {
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.entries[key]
	if b == nil {
		b = &bucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.entries[key] = b
	}
	b.lastSeen = now

	for k, v := range m.entries {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.entries, k)
		}
	}

	return b.lim.AllowN(now, 1)
}

// Len returns the number of tracked clients
func (m *Limiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// New returns a fiber handler rejecting clients over their allowance with
// ErrTooManyLoginAttempts
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = withDefaults(cfg)
	limiter := NewLimiter(cfg)

	return Handler(limiter, cfg.KeyFunc, cfg.Logger)
}

// Handler wraps an existing Limiter
func Handler(limiter *Limiter, keyFunc func(*fiber.Ctx) string, logger auth.Logger) fiber.Handler {
	if keyFunc == nil {
		keyFunc = clientIP
	}
	return func(c *fiber.Ctx) error {
		key := keyFunc(c)
		if !limiter.Allow(key) {
			if logger != nil {
				logger.Warn("login throttled", "client", key, "path", c.Path())
			}
			return auth.ErrTooManyLoginAttempts
		}
		return c.Next()
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig.Burst
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig.TTL
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return cfg
}

// clientIP follows the app ProxyHeader setting, raw X-Forwarded-For is ignored
func clientIP(c *fiber.Ctx) string {
	return c.IP()
}
