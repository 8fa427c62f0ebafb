package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Auther verifies credentials and issues tokens
type Auther struct {
	store            CredentialStore
	hasher           PasswordAuthenticator
	tokenService     TokenService
	clock            Clock
	defaultAuthority string
	deterministicIDs bool
	logger           Logger
	activitySink     ActivitySink
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator backed by store
func NewAuthenticator(store CredentialStore, opts Config) (*Auther, error) {
	tokenService, err := NewTokenServiceFromConfig(opts, nil)
	if err != nil {
		return nil, err
	}

	defaultAuthority := opts.GetDefaultAuthority()
	if defaultAuthority == "" {
		defaultAuthority = AuthorityUser
	}

	return &Auther{
		store:            store,
		hasher:           NewBcryptHasher(0),
		tokenService:     tokenService,
		clock:            time.Now,
		defaultAuthority: defaultAuthority,
		deterministicIDs: opts.GetDeterministicIDs(),
		logger:           defLogger{},
		activitySink:     noopActivitySink{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger)
	return s
}

// WithTokenService replaces the token codec
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordHasher replaces the password hashing primitive
func (s *Auther) WithPasswordHasher(h PasswordAuthenticator) *Auther {
	if h != nil {
		s.hasher = h
	}
	return s
}

// WithClock pins the time source used to stamp tokens
func (s *Auther) WithClock(clock Clock) *Auther {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Authenticate checks the username and password and returns a signed token
func (s *Auther) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			s.loginFailed(ctx, username, ErrInvalidCredentials)
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Authenticate credential lookup failed", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		s.loginFailed(ctx, username, ErrInvalidCredentials)
		return "", ErrInvalidCredentials
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.loginFailed(ctx, username, ErrInvalidCredentials)
		return "", ErrInvalidCredentials
	}

	if !user.Activated {
		s.logger.Warn("Authenticate blocked for deactivated account", "username", username)
		s.loginFailed(ctx, username, ErrAccountNotActivated)
		return "", ErrAccountNotActivated
	}

	token, err := s.tokenService.Issue(user.Username, user.AuthorityNames(), s.clock())
	if err != nil {
		s.logger.Error("Authenticate token issue failed", "error", err)
		s.loginFailed(ctx, username, err)
		return "", err
	}

	s.emit(ctx, ActivityEventLoginSuccess, user.Username, nil)

	return token, nil
}

// Register creates an activated account holding the default authority
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload").
			WithCode(errors.CodeBadRequest)
	}

	existing, err := s.store.FindByUsername(ctx, msg.Username)
	if err != nil && !isNotFound(err) {
		s.logger.Error("Register credential lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing user")
	}

	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           s.newUserID(msg.Username),
		Username:     msg.Username,
		PasswordHash: hash,
		Nickname:     msg.Nickname,
		Activated:    true,
		Authorities:  []Authority{{Name: s.defaultAuthority}},
	}

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, ErrDuplicateIdentity
		}
		s.logger.Error("Register save failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	s.emit(ctx, ActivityEventSignup, saved.Username, nil)

	return saved, nil
}

// CurrentUser loads the record of the principal attached to ctx
func (s *Auther) CurrentUser(ctx context.Context) (*User, error) {
	username, ok := CurrentUsername(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.UserByUsername(ctx, username)
}

// UserByUsername loads a record with its authorities
func (s *Auther) UserByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	if user == nil {
		return nil, ErrMemberNotFound
	}
	return user, nil
}

func (s *Auther) newUserID(username string) uuid.UUID {
	if s.deterministicIDs {
		if id, err := hashid.NewUUID(strings.ToLower(username)); err == nil {
			return id
		}
	}
	return uuid.New()
}

func (s *Auther) loginFailed(ctx context.Context, username string, err error) {
	s.emit(ctx, ActivityEventLoginFailure, username, map[string]any{
		"error": err.Error(),
	})
}

func (s *Auther) emit(ctx context.Context, eventType ActivityEventType, username string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	event := ActivityEvent{
		EventType:  eventType,
		Username:   username,
		Metadata:   metadata,
		OccurredAt: s.clock(),
	}

	if err := normalizeActivitySink(s.activitySink).Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) || errors.IsNotFound(err)
}
