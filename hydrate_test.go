package sessionkit

import (
	"context"
	"errors"
	"testing"

	"github.com/fincue/sessionkit/token"
)

func TestHydrateRestoresPersistedPair(t *testing.T) {
	store := newStubStore()
	if err := store.Save(context.Background(), token.Pair{Access: "stored-access", Refresh: "stored-refresh"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	client := newTestClient(t, &mockAPI{}, func(b *Builder) { b.WithStorage(store) })
	awaitReady(t, client)

	if !client.IsAuthenticated() {
		t.Fatal("expected authenticated state from restored pair")
	}
	if got := client.AccessToken(); got != "stored-access" {
		t.Fatalf("access token = %q, want stored-access", got)
	}
	// Restoring a session is not a sign-in.
	if gen := client.Generation(); gen != 0 {
		t.Fatalf("generation = %d, want 0 after hydration", gen)
	}
}

func TestHydrateEmptyStorage(t *testing.T) {
	client := newTestClient(t, &mockAPI{})
	awaitReady(t, client)

	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated state from empty storage")
	}
	if client.Loading() {
		t.Fatal("loading flag must drop once hydration settles")
	}
}

func TestHydrateLoadFailureSettlesUnauthenticated(t *testing.T) {
	store := newStubStore()
	store.loadFn = func(context.Context) (*token.Pair, error) {
		return nil, errors.New("disk error")
	}

	client := newTestClient(t, &mockAPI{}, func(b *Builder) { b.WithStorage(store) })
	awaitReady(t, client)

	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated state after failed hydration")
	}
	if got := client.MetricsSnapshot().Counters[MetricHydrateFailure]; got != 1 {
		t.Fatalf("hydrate failure counter = %d, want 1", got)
	}
}

func TestOperationsWaitForHydration(t *testing.T) {
	gate := make(chan struct{})
	store := newStubStore()
	store.loadFn = func(context.Context) (*token.Pair, error) {
		<-gate
		return &token.Pair{Access: "stored-access", Refresh: "stored-refresh"}, nil
	}

	seen := make(chan string, 1)
	api := &mockAPI{
		callFn: func(_ context.Context, _, _, access string, _, _ any) error {
			seen <- access
			return nil
		},
	}

	client := newTestClient(t, api, func(b *Builder) { b.WithStorage(store) })

	if !client.Loading() {
		t.Fatal("loading flag must be set while hydration is gated")
	}

	requestDone := make(chan error, 1)
	go func() {
		requestDone <- client.Get(context.Background(), "/accounts", nil)
	}()

	select {
	case err := <-requestDone:
		t.Fatalf("request returned before hydration settled: %v", err)
	default:
	}

	close(gate)
	awaitReady(t, client)

	if err := <-requestDone; err != nil {
		t.Fatalf("request after hydration failed: %v", err)
	}
	if got := <-seen; got != "stored-access" {
		t.Fatalf("request used access token %q, want the restored one", got)
	}
}

func TestWaitReadyHonorsContext(t *testing.T) {
	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })

	store := newStubStore()
	store.loadFn = func(context.Context) (*token.Pair, error) {
		<-gate
		return nil, nil
	}

	client := newTestClient(t, &mockAPI{}, func(b *Builder) { b.WithStorage(store) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Get(ctx, "/accounts", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled while hydration is pending", err)
	}
}

func TestHydrateSaveFailureStillAuthenticates(t *testing.T) {
	store := newStubStore()
	store.saveFn = func(context.Context, token.Pair) error {
		return errors.New("disk full")
	}

	client := newTestClient(t, &mockAPI{}, func(b *Builder) { b.WithStorage(store) })
	awaitReady(t, client)
	signIn(t, client)

	// Persistence is best-effort; the in-memory session still installs.
	if !client.IsAuthenticated() {
		t.Fatal("expected authenticated state despite persistence failure")
	}
}
