package sessionkit

import (
	"context"
	"fmt"
	"net/http"
)

// SignIn exchanges credentials for a token pair and installs it as the new
// session. The generation advances exactly once, after the backend accepted
// the credentials and before the pair is published.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if err := c.waitReady(ctx); err != nil {
		return err
	}

	pair, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.metricInc(MetricSignInFailure)
		c.emitEvent(ctx, SessionEvent{
			EventType: EventSignInFailed,
			Email:     email,
			Error:     err.Error(),
		})
		if IsAPIStatus(err, http.StatusUnauthorized) {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, email)
		}
		return err
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	// A sign-out racing with this install advances the generation again and
	// storeTokens discards the pair, leaving the client signed out.
	installed := c.storeTokens(ctx, pair, gen)

	c.metricInc(MetricSignInSuccess)
	c.emitEvent(ctx, SessionEvent{
		EventType: EventSignedIn,
		Email:     email,
		Success:   installed,
	})
	return nil
}

// SignUp registers the account and signs in with the same credentials.
//
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// SignUp does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	if err := c.waitReady(ctx); err != nil {
		return err
	}

	if err := c.api.Register(ctx, email, password); err != nil {
		c.metricInc(MetricSignUpFailure)
		if IsAPIStatus(err, http.StatusBadRequest) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		return err
	}

	if err := c.SignIn(ctx, email, password); err != nil {
		c.metricInc(MetricSignUpFailure)
		return err
	}

	c.metricInc(MetricSignUpSuccess)
	c.emitEvent(ctx, SessionEvent{
		EventType: EventSignedUp,
		Email:     email,
		Success:   true,
	})
	return nil
}
