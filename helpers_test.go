package sessionkit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fincue/sessionkit/storage"
	"github.com/fincue/sessionkit/token"
)

// mockAPI is an injectable AuthAPI double. Unset functions succeed with
// canned values; every method counts its invocations.
type mockAPI struct {
	loginFn    func(ctx context.Context, email, password string) (token.Pair, error)
	registerFn func(ctx context.Context, email, password string) error
	refreshFn  func(ctx context.Context, refreshToken string) (token.Pair, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
	callFn     func(ctx context.Context, method, path, accessToken string, body, out any) error

	loginCalls    atomic.Int64
	registerCalls atomic.Int64
	refreshCalls  atomic.Int64
	logoutCalls   atomic.Int64
	callCalls     atomic.Int64
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (token.Pair, error) {
	m.loginCalls.Add(1)
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return token.Pair{Access: "access-1", Refresh: "refresh-1"}, nil
}

func (m *mockAPI) Register(ctx context.Context, email, password string) error {
	m.registerCalls.Add(1)
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password)
	}
	return nil
}

func (m *mockAPI) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	m.refreshCalls.Add(1)
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return token.Pair{Access: "access-2", Refresh: "refresh-2"}, nil
}

func (m *mockAPI) Logout(ctx context.Context, refreshToken string) error {
	m.logoutCalls.Add(1)
	if m.logoutFn != nil {
		return m.logoutFn(ctx, refreshToken)
	}
	return nil
}

func (m *mockAPI) Call(ctx context.Context, method, path, accessToken string, body, out any) error {
	m.callCalls.Add(1)
	if m.callFn != nil {
		return m.callFn(ctx, method, path, accessToken, body, out)
	}
	return nil
}

// stubStore is an injectable Storage double backed by a Memory store for any
// function left unset.
type stubStore struct {
	mem     *storage.Memory
	loadFn  func(ctx context.Context) (*token.Pair, error)
	saveFn  func(ctx context.Context, pair token.Pair) error
	clearFn func(ctx context.Context) error
}

func newStubStore() *stubStore {
	return &stubStore{mem: storage.NewMemory()}
}

func (s *stubStore) Load(ctx context.Context) (*token.Pair, error) {
	if s.loadFn != nil {
		return s.loadFn(ctx)
	}
	return s.mem.Load(ctx)
}

func (s *stubStore) Save(ctx context.Context, pair token.Pair) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, pair)
	}
	return s.mem.Save(ctx, pair)
}

func (s *stubStore) Clear(ctx context.Context) error {
	if s.clearFn != nil {
		return s.clearFn(ctx)
	}
	return s.mem.Clear(ctx)
}

func newTestClient(t *testing.T, api AuthAPI, configure ...func(*Builder)) *Client {
	t.Helper()

	b := New().
		WithAuthAPI(api).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true)

	for _, fn := range configure {
		fn(b)
	}

	client, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client
}

func awaitReady(t *testing.T, c *Client) {
	t.Helper()

	select {
	case <-c.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("client never became ready")
	}
}

func signIn(t *testing.T, c *Client) {
	t.Helper()

	if err := c.SignIn(context.Background(), "user@example.com", "hunter2"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
