package sessionkit

import (
	"context"
	"time"

	"github.com/fincue/sessionkit/token"
)

// hydrate restores the persisted token pair once at startup. It runs on its
// own goroutine started by Build; the loading flag stays set and every client
// operation waits until it settles. Hydration never touches the generation
// counter: only sign-in and sign-out advance it.
func (c *Client) hydrate() {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Storage.HydrateTimeout)
	defer cancel()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		close(c.ready)
	}()

	pair, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("session hydration failed", "error", err)
		c.metricInc(MetricHydrateFailure)
		return
	}
	restored := false
	if pair != nil && !pair.IsZero() {
		c.mu.Lock()
		if c.tokens.IsZero() && !c.signingOut {
			c.tokens = *pair
			restored = true
		}
		c.mu.Unlock()
	}

	if restored {
		if exp, expErr := token.AccessExpiry(pair.Access); expErr == nil && exp.Before(time.Now()) {
			c.logger.Debug("restored access token already expired", "expired_at", exp)
		}
	}

	c.metricInc(MetricHydrateSuccess)
	c.emitEvent(ctx, SessionEvent{
		EventType: EventHydrated,
		Success:   true,
		Metadata: map[string]string{
			"restored": boolString(restored),
		},
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
