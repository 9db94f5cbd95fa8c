package sessionkit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/fincue/sessionkit/storage"
	"github.com/fincue/sessionkit/token"
)

// Client defines a public type used by sessionkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// All session state lives in one mutex-guarded unit; callers never touch it
// directly, mutation funnels through SignIn, SignOut, and the refresh path.
type Client struct {
	config  Config
	api     AuthAPI
	store   storage.Storage
	logger  hclog.Logger
	metrics *Metrics
	events  *eventDispatcher

	// mu guards the shared session unit: tokens, generation, signingOut,
	// pending, and loading. Never held across network or storage I/O.
	mu         sync.Mutex
	tokens     token.Pair
	generation uint64
	signingOut bool
	pending    *pendingRefresh
	loading    bool

	// ready closes when hydration settles.
	ready chan struct{}
}

// pendingRefresh is the single-slot shared handle concurrent callers join
// instead of issuing their own network refresh. The slot belongs to the
// generation it was created in; callers from a later generation never join
// it. access is valid only after done closes; it stays empty when the
// refresh failed or was discarded.
type pendingRefresh struct {
	done   chan struct{}
	gen    uint64
	access string
}

// AccessToken returns the current access token, or "" when unauthenticated.
//
// AccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.Access
}

// IsAuthenticated reports whether a token pair is currently held.
//
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.tokens.IsZero()
}

// Loading reports whether the startup hydration from storage is still
// pending.
//
// Loading does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Ready returns a channel that closes once hydration settles.
//
// Ready does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// AccessTokenExpiry returns the expiry claim of the current access token.
// The zero time is returned when unauthenticated or when the token carries
// no parseable expiry.
//
// AccessTokenExpiry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AccessTokenExpiry() time.Time {
	access := c.AccessToken()
	if access == "" {
		return time.Time{}
	}
	exp, err := token.AccessExpiry(access)
	if err != nil {
		return time.Time{}
	}
	return exp
}

// Generation returns the current session generation. It increases by exactly
// one on every sign-in and every sign-out and never repeats.
//
// Generation does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// EventsDropped reports session events discarded due to dispatcher
// backpressure.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) EventsDropped() uint64 {
	return c.events.Dropped()
}

// Close stops the event dispatcher after draining buffered events. It does
// not sign out; session state and persisted tokens are left intact.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.events != nil {
		c.events.Close()
	}
}

// waitReady blocks until hydration settles or ctx is done. Every operation
// that reads or mutates the session unit goes through here first so callers
// never observe the pre-hydration empty state as "signed out".
func (c *Client) waitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	default:
	}
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// storeTokens persists the pair, then publishes it in memory, unless the
// generation advanced or a sign-out began while persisting, in which case
// the pair is discarded. Persistence failure is logged and never blocks the
// in-memory update.
func (c *Client) storeTokens(ctx context.Context, pair token.Pair, gen uint64) bool {
	if err := c.store.Save(ctx, pair); err != nil {
		c.logger.Warn("token persistence failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signingOut || c.generation != gen {
		return false
	}
	c.tokens = pair
	return true
}

// clearSession drops the in-memory pair unconditionally and clears persisted
// storage best-effort. The generation is left untouched: it advances only on
// sign-in and sign-out.
func (c *Client) clearSession(ctx context.Context) {
	c.mu.Lock()
	c.tokens = token.Pair{}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("persisted session clear failed", "error", err)
	}

	c.metricInc(MetricSessionCleared)
	c.emitEvent(ctx, SessionEvent{
		EventType: EventSessionCleared,
		Success:   true,
	})
}

func (c *Client) metricInc(id MetricID) {
	c.metrics.Inc(id)
}

func (c *Client) emitEvent(ctx context.Context, event SessionEvent) {
	if c.events == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	c.events.Emit(ctx, event)
}
