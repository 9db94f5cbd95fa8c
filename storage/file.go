package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fincue/sessionkit/token"
)

// File defines a public type used by sessionkit APIs.
//
// File persists the pair as a JSON document with 0600 permissions. Writes
// go through a temporary file and rename so readers never observe a
// half-written pair.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file backend rooted at path. The parent directory must
// exist.
//
// NewFile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns the persisted pair, or (nil, nil) when the file does not
// exist.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
// Load does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Load(_ context.Context) (*token.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var pair token.Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}

	return &pair, nil
}

// Save persists the pair, replacing any previous one.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Save(_ context.Context, pair token.Pair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".sessionkit-*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod token file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write token file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace token file: %w", err)
	}

	return nil
}

// Clear removes the persisted pair. A missing file is not an error.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}

	return nil
}
