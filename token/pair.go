package token

// Pair defines a public type used by sessionkit APIs.
//
// Pair instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Pair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// IsZero reports whether the pair carries no tokens.
//
// IsZero does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p Pair) IsZero() bool {
	return p.Access == "" && p.Refresh == ""
}
