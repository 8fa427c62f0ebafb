package auth

import "time"

// TokenDecoder decodes a token into verified claims
type TokenDecoder interface {
	Decode(tokenString string, now time.Time) (AuthClaims, error)
}

// TokenValidator is a boolean predicate over presented tokens.
type TokenValidator interface {
	Validate(tokenString string, now time.Time) bool
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string, now time.Time) bool

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string, now time.Time) bool {
	if f == nil {
		return false
	}
	return f(tokenString, now)
}

// DecodingValidator reports a token as valid iff it decodes without error.
// Decode errors are logged and swallowed.
type DecodingValidator struct {
	decoder TokenDecoder
	logger  Logger
}

// NewTokenValidator wraps a decoder
func NewTokenValidator(decoder TokenDecoder, logger Logger) *DecodingValidator {
	return &DecodingValidator{
		decoder: decoder,
		logger:  normalizeLogger(logger),
	}
}

// Validate satisfies the TokenValidator interface.
func (v *DecodingValidator) Validate(tokenString string, now time.Time) bool {
	if v == nil || v.decoder == nil || tokenString == "" {
		return false
	}

	if _, err := v.decoder.Decode(tokenString, now); err != nil {
		v.logger.Debug("token rejected", "error", err)
		return false
	}

	return true
}
