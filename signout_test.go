package sessionkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fincue/sessionkit/token"
)

func TestSignOutClearsSessionAndRevokes(t *testing.T) {
	revoked := make(chan string, 1)
	api := &mockAPI{
		logoutFn: func(_ context.Context, refreshToken string) error {
			revoked <- refreshToken
			return nil
		},
	}
	store := newStubStore()
	client := newTestClient(t, api, func(b *Builder) { b.WithStorage(store) })
	awaitReady(t, client)
	signIn(t, client)

	client.SignOut(context.Background())

	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated state after sign-out")
	}
	if gen := client.Generation(); gen != 2 {
		t.Fatalf("generation = %d, want 2 after sign-in and sign-out", gen)
	}

	persisted, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load persisted pair: %v", err)
	}
	if persisted != nil {
		t.Fatalf("persisted pair = %+v, want cleared", persisted)
	}

	select {
	case got := <-revoked:
		if got != "refresh-1" {
			t.Fatalf("revoked token = %q, want refresh-1", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("remote revoke never issued")
	}
}

func TestSignOutDiscardsInFlightRefresh(t *testing.T) {
	release := make(chan struct{})
	api := &mockAPI{}
	api.refreshFn = func(context.Context, string) (token.Pair, error) {
		<-release
		return token.Pair{Access: "access-2", Refresh: "refresh-2"}, nil
	}

	client := newTestClient(t, api)
	awaitReady(t, client)
	signIn(t, client)

	result := make(chan string, 1)
	go func() {
		result <- client.refreshAccessToken(context.Background())
	}()
	eventually(t, func() bool { return api.refreshCalls.Load() == 1 }, "no refresh call started")

	client.SignOut(context.Background())
	close(release)

	if got := <-result; got != "" {
		t.Fatalf("stale refresh result = %q, want discarded", got)
	}
	if client.IsAuthenticated() {
		t.Fatal("discarded refresh must not resurrect the session")
	}
	if got := client.AccessToken(); got != "" {
		t.Fatalf("access token = %q, want empty after sign-out", got)
	}

	eventually(t, func() bool {
		return client.MetricsSnapshot().Counters[MetricRefreshDiscarded] == 1
	}, "discarded refresh never counted")
}

func TestSignOutDoesNotWaitForRevoke(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	api := &mockAPI{
		logoutFn: func(ctx context.Context, _ string) error {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return ctx.Err()
		},
	}
	client := newTestClient(t, api)
	awaitReady(t, client)
	signIn(t, client)

	done := make(chan struct{})
	go func() {
		client.SignOut(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SignOut blocked on the remote revoke")
	}
	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated state")
	}
}

func TestSignOutRevokeFailureAbsorbed(t *testing.T) {
	api := &mockAPI{
		logoutFn: func(context.Context, string) error {
			return errors.New("backend unreachable")
		},
	}
	client := newTestClient(t, api)
	awaitReady(t, client)
	signIn(t, client)

	client.SignOut(context.Background())

	if client.IsAuthenticated() {
		t.Fatal("local sign-out must succeed regardless of revoke outcome")
	}
	eventually(t, func() bool {
		return client.MetricsSnapshot().Counters[MetricRevokeFailure] == 1
	}, "revoke failure never counted")
}

func TestSignOutWhileAnonymous(t *testing.T) {
	api := &mockAPI{}
	client := newTestClient(t, api)
	awaitReady(t, client)

	client.SignOut(context.Background())

	if got := api.logoutCalls.Load(); got != 0 {
		t.Fatalf("logout calls = %d, want 0 without a refresh token", got)
	}
	if gen := client.Generation(); gen != 1 {
		t.Fatalf("generation = %d, want 1 after anonymous sign-out", gen)
	}
}

func TestSignInAfterSignOutStartsFreshSession(t *testing.T) {
	api := &mockAPI{}
	client := newTestClient(t, api)
	awaitReady(t, client)

	signIn(t, client)
	client.SignOut(context.Background())
	signIn(t, client)

	if !client.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}
	if gen := client.Generation(); gen != 3 {
		t.Fatalf("generation = %d, want 3", gen)
	}
}
