// Package token holds the token pair value type and unverified claim peeks.
//
// Architecture boundaries:
//   - token never validates signatures. The backend is the only party that
//     can verify a token; the client only reads claims for scheduling and
//     diagnostics.
//   - token has no dependency on the rest of sessionkit and can be imported
//     by storage backends and transports alike.
package token
