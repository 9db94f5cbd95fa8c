package sessionkit

import (
	"context"

	"github.com/fincue/sessionkit/token"
)

// AuthAPI is the remote auth backend consumed by the session manager. The
// canonical implementation is httpapi.Client; tests substitute doubles.
//
// Implementations must be safe for concurrent use. Every method observes the
// passed context for cancellation and deadlines.
type AuthAPI interface {
	// Login exchanges credentials for a token pair. Fails with *APIError
	// (401 on bad credentials) or a transport error.
	Login(ctx context.Context, email, password string) (token.Pair, error)

	// Register creates an account. Fails with *APIError (400 when the email
	// is taken) or a transport error.
	Register(ctx context.Context, email, password string) error

	// Refresh exchanges a refresh token for a new pair. Fails with *APIError
	// (401 when the token is invalid, expired, or revoked) or a transport
	// error.
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)

	// Logout revokes a refresh token remotely. Best-effort: callers swallow
	// the returned error.
	Logout(ctx context.Context, refreshToken string) error

	// Call performs a generic authenticated request. body is JSON-encoded
	// when non-nil; a 2xx response is decoded into out when out is non-nil.
	// Non-2xx responses surface as *APIError.
	Call(ctx context.Context, method, path, accessToken string, body, out any) error
}
