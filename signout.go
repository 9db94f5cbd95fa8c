package sessionkit

import (
	"context"

	"github.com/fincue/sessionkit/token"
)

// SignOut tears down the session. It never fails observably: storage and
// network errors are absorbed, and IsAuthenticated is false when it returns
// regardless of remote reachability.
//
// The signing-out flag and the generation increment happen in one critical
// section before any suspension, so a refresh still awaiting network I/O
// observes the new generation at its next synchronization point and discards
// its result. The remote revoke is fire-and-forget with its own bounded
// context; SignOut never waits for it.
//
// SignOut does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) SignOut(ctx context.Context) {
	_ = c.waitReady(ctx)

	c.mu.Lock()
	refreshToken := c.tokens.Refresh
	c.signingOut = true
	c.generation++
	c.tokens = token.Pair{}
	// Any in-flight refresh now belongs to a dead generation; detach its
	// slot so no later caller can join it.
	c.pending = nil
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("persisted session clear failed during sign-out", "error", err)
	}

	if refreshToken != "" {
		go c.revoke(refreshToken)
	}

	c.mu.Lock()
	c.signingOut = false
	c.mu.Unlock()

	c.metricInc(MetricSignOut)
	c.emitEvent(ctx, SessionEvent{
		EventType: EventSignedOut,
		Success:   true,
	})
}

// revoke invalidates the captured refresh token remotely. Revocation is
// advisory: failures and timeouts are counted and logged, never surfaced.
func (c *Client) revoke(refreshToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.API.RevokeTimeout)
	defer cancel()

	if err := c.api.Logout(ctx, refreshToken); err != nil {
		c.metricInc(MetricRevokeFailure)
		c.logger.Debug("remote token revoke failed", "error", err)
	}
}
