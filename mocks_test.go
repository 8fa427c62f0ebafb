package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/stretchr/testify/mock"
)

const testSigningKey = "unit-test-signing-key-0123456789abcdef0123456789"

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetTokenTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *MockConfig) GetIssuer() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetContextKey() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetDefaultAuthority() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetDeterministicIDs() bool {
	return m.Called().Bool(0)
}

func newMockConfig() *MockConfig {
	cfg := new(MockConfig)
	cfg.On("GetSigningKey").Return(testSigningKey)
	cfg.On("GetSigningMethod").Return("HS512")
	cfg.On("GetTokenTTL").Return(time.Hour)
	cfg.On("GetIssuer").Return("test-issuer")
	cfg.On("GetAuthScheme").Return("Bearer").Maybe()
	cfg.On("GetContextKey").Return("user").Maybe()
	cfg.On("GetDefaultAuthority").Return(auth.AuthorityUser)
	cfg.On("GetDeterministicIDs").Return(false)
	return cfg
}

// MockCredentialStore implements auth.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) Save(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingSink captures activity events
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) types() []auth.ActivityEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]auth.ActivityEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var issuedAt = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) auth.Clock {
	return func() time.Time { return t }
}
