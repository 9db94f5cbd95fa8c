// Package httpapi implements the sessionkit.AuthAPI interface against the
// Fincue HTTP backend.
//
// Wire contract:
//   - POST /auth/token takes form-encoded username/password and returns a
//     token pair.
//   - POST /auth/register and /auth/refresh take JSON bodies.
//   - POST /auth/logout returns 204 with no body.
//   - error responses carry a JSON envelope with a "detail" field, which is
//     surfaced as *sessionkit.APIError.
//
// The package never persists or refreshes tokens itself; it only moves
// bytes. Session policy lives in the root package.
package httpapi
