// Package sessionkit provides the authenticated-session manager for the Fincue
// HTTP API: a client-owned access/refresh token pair, single-flight token
// refresh, automatic retry of requests that fail on token expiry, and sign-out
// that safely reconciles with any refresh still in flight.
//
// The package is designed for concurrent callers: Client methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// sessionkit is the public surface. It exposes [Client], [Builder], [Config],
// and value types (SessionEvent, MetricsSnapshot, APIError). Token persistence
// lives behind [storage.Storage], the remote auth backend behind [AuthAPI];
// both are injected and never constructed by this package.
//
// # What this package must NOT do
//
//   - Issue, sign, or validate tokens. It holds credentials the backend
//     minted and exchanges them through [AuthAPI] only.
//   - Perform I/O outside of Client methods and the hydration goroutine
//     started by [Builder.Build].
//   - Surface storage failures to callers. Persistence is best-effort; the
//     in-memory session is the source of truth.
//
// # Concurrency contract
//
// At most one network refresh call is in flight at any time; concurrent
// callers join the pending refresh and observe its result. A refresh that
// completes after sign-out advanced the session generation is discarded
// without mutating state.
package sessionkit
