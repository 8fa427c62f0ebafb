// Package auth provides stateless JWT authentication: credential checks,
// signed token issuance, per request token validation and identity
// propagation through context.Context.
//
// Tokens:
//   - TokenService signs HMAC tokens (HS512 by default) carrying the username
//     in "sub", the comma separated authority set in "auth" and "exp". Decode
//     verifies the signature before the expiry and reports ErrTokenMalformed,
//     ErrTokenBadSignature or ErrTokenExpired.
//   - TokenValidator is a boolean view over Decode used by the request
//     interceptor in middleware/jwtware.
//
// Identity:
//   - WithIdentity attaches a Principal to a context; IdentityFromContext and
//     RequireAuthority read it back. Nothing is stored globally, every request
//     carries its own identity.
//
// Accounts:
//   - Auther verifies credentials against a CredentialStore and registers new
//     accounts. Unknown users and wrong passwords fail with the same
//     ErrInvalidCredentials. MemoryStore is an in process store; the
//     repository package provides a bun backed one.
//
// Activity sinks:
//   - ActivitySink receives best-effort login and signup events. Sink errors
//     are logged and never fail the operation.
package auth
