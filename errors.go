package auth

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeAccountNotActivated = "ACCOUNT_NOT_ACTIVATED"
	TextCodeDuplicateIdentity   = "DUPLICATE_IDENTITY"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature   = "TOKEN_BAD_SIGNATURE"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeUnauthenticated     = "UNAUTHENTICATED"
	TextCodeForbidden           = "FORBIDDEN"
	TextCodeMemberNotFound      = "MEMBER_NOT_FOUND"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodePasswordTooLong     = "PASSWORD_TOO_LONG"
	TextCodeTooManyAttempts     = "TOO_MANY_ATTEMPTS"
	TextCodeDataParseError      = "DATA_PARSE_ERROR"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotActivated is returned when a deactivated account tries to log in
var ErrAccountNotActivated = errors.New("account is not activated", errors.CategoryAuth).
	WithTextCode(TextCodeAccountNotActivated).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateIdentity is returned when signing up with a taken username
var ErrDuplicateIdentity = errors.New("user is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity).
	WithCode(errors.CodeConflict)

// ErrTokenMalformed is returned when a token can not be split or decoded
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadSignature is returned when a token signature does not verify
var ErrTokenBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a verified token is past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when an operation needs an identity and none is attached
var ErrUnauthenticated = errors.New("full authentication is required to access this resource", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the identity lacks the required authority
var ErrForbidden = errors.New("access is denied", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrMemberNotFound is returned when a user record can not be found
var ErrMemberNotFound = errors.New("member not found", errors.CategoryNotFound).
	WithTextCode(TextCodeMemberNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password can not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrTooManyLoginAttempts is returned by the login throttle
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(http.StatusTooManyRequests)

// ErrUnableToParseData is returned when a request body can not be decoded
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return err != nil && errors.Is(err, ErrTokenExpired)
}

// IsMalformedError will check for tokens that could not be decoded
func IsMalformedError(err error) bool {
	return err != nil && errors.Is(err, ErrTokenMalformed)
}

// IsBadSignatureError will check for tokens that failed verification
func IsBadSignatureError(err error) bool {
	return err != nil && errors.Is(err, ErrTokenBadSignature)
}

// IsUnauthenticatedError will check for requests that carry no identity
func IsUnauthenticatedError(err error) bool {
	return err != nil && errors.Is(err, ErrUnauthenticated)
}

// IsForbiddenError will check for identities lacking authority
func IsForbiddenError(err error) bool {
	return err != nil && errors.Is(err, ErrForbidden)
}
