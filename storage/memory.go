package storage

import (
	"context"
	"sync"

	"github.com/fincue/sessionkit/token"
)

// Memory defines a public type used by sessionkit APIs.
//
// Memory keeps the pair in process memory only. It is the default backend
// and suits tests and short-lived processes that re-authenticate on start.
type Memory struct {
	mu   sync.Mutex
	pair *token.Pair
}

// NewMemory returns an empty in-memory backend.
//
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored pair, or (nil, nil) when none exists.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
// Load does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Load(_ context.Context) (*token.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pair == nil {
		return nil, nil
	}

	p := *m.pair
	return &p, nil
}

// Save persists the pair, replacing any previous one.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Save(_ context.Context, pair token.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = &pair
	return nil
}

// Clear removes the persisted pair.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = nil
	return nil
}
