package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultSigningMethod is used when the configuration leaves it empty
const DefaultSigningMethod = "HS512"

// DefaultTokenTTL is the lifetime applied to every issued token
const DefaultTokenTTL = time.Hour

// TokenService issues and decodes signed bearer tokens
type TokenService interface {
	Issue(subject string, authorities []string, now time.Time) (string, error)
	Decode(tokenString string, now time.Time) (AuthClaims, error)
	TTL() time.Duration
}

// TokenServiceImpl implements the TokenService interface using HMAC signatures
type TokenServiceImpl struct {
	signingKey []byte
	method     jwt.SigningMethod
	ttl        time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance. The key is copied
// and never mutated afterwards, so the service is safe for concurrent use.
func NewTokenService(signingKey []byte, signingMethod string, ttl time.Duration, issuer string, logger Logger) (TokenService, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("signing key must not be empty", errors.CategoryBadInput)
	}

	if signingMethod == "" {
		signingMethod = DefaultSigningMethod
	}

	method, ok := jwt.GetSigningMethod(signingMethod).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.New("unsupported signing method", errors.CategoryBadInput).
			WithMetadata(map[string]any{"alg": signingMethod})
	}

	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive", errors.CategoryBadInput).
			WithMetadata(map[string]any{"ttl": ttl.String()})
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	return &TokenServiceImpl{
		signingKey: key,
		method:     method,
		ttl:        ttl,
		issuer:     issuer,
		logger:     normalizeLogger(logger),
	}, nil
}

// NewTokenServiceFromConfig builds a TokenService from auth options
func NewTokenServiceFromConfig(cfg Config, logger Logger) (TokenService, error) {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetSigningMethod(),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		logger,
	)
}

// TTL returns the lifetime of issued tokens
func (ts *TokenServiceImpl) TTL() time.Duration {
	return ts.ttl
}

// Issue signs a token for subject carrying the given authorities
func (ts *TokenServiceImpl) Issue(subject string, authorities []string, now time.Time) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("token subject must not be empty", errors.CategoryBadInput)
	}

	for _, a := range authorities {
		if strings.Contains(a, AuthoritiesSeparator) {
			return "", errors.New("authority name contains separator", errors.CategoryBadInput).
				WithMetadata(map[string]any{"authority": a})
		}
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Auth: joinAuthorities(authorities),
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Decode verifies the signature and then the expiry of tokenString at now.
// Claims are only returned once both checks pass.
func (ts *TokenServiceImpl) Decode(tokenString string, now time.Time) (AuthClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenMalformed
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		richErr := classifyTokenError(err)
		ts.logger.Debug("TokenService decode failed", "text_code", richErr.TextCode, "error", err)
		return nil, richErr
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService decode could not map claims")
	return nil, ErrTokenMalformed
}

func classifyTokenError(err error) *errors.Error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
