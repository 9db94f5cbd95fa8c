package sessionkit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned by Request when no access token is held.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned by SignIn when the backend rejects the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// errRefreshFailed marks an internal refresh failure. It is never surfaced to
// callers; an unrecoverable 401 re-raises the original API error instead.
var errRefreshFailed = errors.New("token refresh failed")

// APIError carries a non-2xx response from the Fincue backend. Non-401
// failures propagate through Request unchanged as *APIError.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Backend detail message, may be empty
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Is implements errors.Is support: two APIErrors match when their status
// codes match.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// IsAPIStatus reports whether err is an *APIError with the given HTTP status.
func IsAPIStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
