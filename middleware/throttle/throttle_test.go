package throttle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-auth-jwt/middleware/throttle"
)

type manualClock struct {
	now time.Time
}

func (m *manualClock) Now() time.Time { return m.now }

func TestLimiter_BurstThenRefill(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := throttle.NewLimiter(throttle.Config{
		Rate:  1,
		Burst: 2,
		TTL:   time.Minute,
		Clock: clock.Now,
	})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// other clients keep their own allowance
	assert.True(t, limiter.Allow("10.0.0.2"))

	clock.now = clock.now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	limiter := throttle.NewLimiter(throttle.Config{
		Rate:  1,
		Burst: 1,
		TTL:   time.Minute,
		Clock: clock.Now,
	})

	limiter.Allow("a")
	limiter.Allow("b")
	require.Equal(t, 2, limiter.Len())

	clock.now = clock.now.Add(2 * time.Minute)
	limiter.Allow("c")
	assert.Equal(t, 1, limiter.Len())
}

func TestHandler_RejectsWithTooManyRequests(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler(nil)})
	app.Post("/login", throttle.New(throttle.Config{
		Rate:    1,
		Burst:   1,
		Clock:   clock.Now,
		KeyFunc: func(c *fiber.Ctx) string { return c.Get("X-Client") },
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Client", client)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, send("one"))
	assert.Equal(t, http.StatusTooManyRequests, send("one"))
	assert.Equal(t, http.StatusNoContent, send("two"))
}
