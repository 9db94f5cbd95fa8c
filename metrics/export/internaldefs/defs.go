package internaldefs

import (
	sessionkit "github.com/fincue/sessionkit"
)

// CounterDef defines a public type used by sessionkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessionkit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: sessionkit.MetricSignInSuccess, Name: "sessionkit_sign_in_success_total", Help: "Successful sign-in operations."},
	{ID: sessionkit.MetricSignInFailure, Name: "sessionkit_sign_in_failure_total", Help: "Failed sign-in operations."},
	{ID: sessionkit.MetricSignUpSuccess, Name: "sessionkit_sign_up_success_total", Help: "Successful sign-up operations."},
	{ID: sessionkit.MetricSignUpFailure, Name: "sessionkit_sign_up_failure_total", Help: "Failed sign-up operations."},
	{ID: sessionkit.MetricRefreshSuccess, Name: "sessionkit_refresh_success_total", Help: "Successful token refreshes."},
	{ID: sessionkit.MetricRefreshFailure, Name: "sessionkit_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: sessionkit.MetricRefreshJoined, Name: "sessionkit_refresh_joined_total", Help: "Callers that joined an in-flight refresh."},
	{ID: sessionkit.MetricRefreshSuppressed, Name: "sessionkit_refresh_suppressed_total", Help: "Refresh attempts skipped during sign-out or without a refresh token."},
	{ID: sessionkit.MetricRefreshDiscarded, Name: "sessionkit_refresh_discarded_total", Help: "Completed refreshes discarded on session generation mismatch."},
	{ID: sessionkit.MetricRequestRetried, Name: "sessionkit_request_retried_total", Help: "Requests retried after a refreshed access token."},
	{ID: sessionkit.MetricRequestUnauthenticated, Name: "sessionkit_request_unauthenticated_total", Help: "Requests rejected locally for lack of an access token."},
	{ID: sessionkit.MetricSessionCleared, Name: "sessionkit_session_cleared_total", Help: "Sessions cleared after unrecoverable auth failures."},
	{ID: sessionkit.MetricSignOut, Name: "sessionkit_sign_out_total", Help: "Sign-out operations."},
	{ID: sessionkit.MetricRevokeFailure, Name: "sessionkit_revoke_failure_total", Help: "Failed best-effort remote revocations."},
	{ID: sessionkit.MetricHydrateSuccess, Name: "sessionkit_hydrate_success_total", Help: "Successful storage hydrations."},
	{ID: sessionkit.MetricHydrateFailure, Name: "sessionkit_hydrate_failure_total", Help: "Failed storage hydrations."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: sessionkit.MetricRequestLatency, Name: "sessionkit_request_latency_seconds", Help: "Authenticated request latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
