package sessionkit

import (
	"context"
)

// refreshAccessToken runs the token-refresh coordinator. It returns the new
// access token, or "" when no refresh happened: sign-out in progress, no
// refresh token held, the backend rejected the token, or the result arrived
// after the generation advanced. It never returns an error.
//
// All callers that enter while one refresh is outstanding join the pending
// slot and observe the identical result; exactly one network refresh call is
// made for that generation.
func (c *Client) refreshAccessToken(ctx context.Context) string {
	if err := c.waitReady(ctx); err != nil {
		return ""
	}

	c.mu.Lock()
	if c.signingOut || c.tokens.Refresh == "" {
		c.mu.Unlock()
		c.metricInc(MetricRefreshSuppressed)
		return ""
	}
	if p := c.pending; p != nil && p.gen == c.generation {
		c.mu.Unlock()
		c.metricInc(MetricRefreshJoined)
		select {
		case <-p.done:
			return p.access
		case <-ctx.Done():
			return ""
		}
	}

	// Winner path: the generation/token snapshot and the pending-slot install
	// happen in the same critical section, so no second caller can start an
	// independent refresh before the network call begins. A leftover slot
	// from an earlier generation is overwritten, never joined.
	p := &pendingRefresh{done: make(chan struct{}), gen: c.generation}
	c.pending = p
	gen := c.generation
	refreshToken := c.tokens.Refresh
	c.mu.Unlock()

	// The network call is detached from the winner's context: joiners depend
	// on this result, and a refresh that never resolves must still settle.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.API.RequestTimeout)
	defer cancel()

	pair, err := c.api.Refresh(callCtx, refreshToken)

	c.mu.Lock()
	// A sign-out or a newer refresh may have replaced the slot already;
	// only the slot's own winner clears it.
	if c.pending == p {
		c.pending = nil
	}
	discarded := c.signingOut || c.generation != gen
	c.mu.Unlock()

	if err != nil {
		close(p.done)
		c.metricInc(MetricRefreshFailure)
		c.logger.Debug("token refresh rejected", "error", err)
		c.emitEvent(callCtx, SessionEvent{
			EventType: EventRefreshDiscarded,
			Error:     errRefreshFailed.Error(),
		})
		return ""
	}
	if discarded || !c.storeTokens(callCtx, pair, gen) {
		close(p.done)
		c.metricInc(MetricRefreshDiscarded)
		c.emitEvent(callCtx, SessionEvent{
			EventType: EventRefreshDiscarded,
			Metadata: map[string]string{
				"reason": "generation_advanced",
			},
		})
		return ""
	}

	p.access = pair.Access
	close(p.done)

	c.metricInc(MetricRefreshSuccess)
	c.emitEvent(callCtx, SessionEvent{
		EventType: EventTokenRefreshed,
		Success:   true,
	})
	return pair.Access
}
