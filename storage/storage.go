package storage

import (
	"context"

	"github.com/fincue/sessionkit/token"
)

// Storage defines a public type used by sessionkit APIs.
//
// Implementations must be safe for concurrent use: the client persists
// refreshed pairs from background goroutines while sign-out clears from the
// caller's goroutine.
type Storage interface {
	// Load returns the persisted pair, or (nil, nil) when none exists.
	Load(ctx context.Context) (*token.Pair, error)

	// Save persists the pair, replacing any previous one.
	Save(ctx context.Context, pair token.Pair) error

	// Clear removes the persisted pair. Clearing an empty backend is not
	// an error.
	Clear(ctx context.Context) error
}
