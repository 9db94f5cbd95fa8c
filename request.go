package sessionkit

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Request performs an authenticated call against the Fincue API. body is
// JSON-encoded when non-nil and a 2xx response is decoded into out when out
// is non-nil.
//
// With no access token held it fails immediately with ErrUnauthenticated and
// issues no network call. A 401 response triggers exactly one refresh-and-
// retry cycle: the caller sees the retry's outcome, never the original 401,
// unless the refresh itself fails, in which case the session is cleared and the
// original 401 is returned. All other failures pass through untouched with
// no session mutation.
//
// Request may return an error when input validation, dependency calls, or security checks fail.
// Request does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	if err := c.waitReady(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	access := c.tokens.Access
	c.mu.Unlock()

	if access == "" {
		c.metricInc(MetricRequestUnauthenticated)
		return ErrUnauthenticated
	}

	start := time.Now()
	err := c.api.Call(ctx, method, path, access, body, out)
	c.metrics.Observe(MetricRequestLatency, time.Since(start))
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	c.mu.Lock()
	hasRefresh := c.tokens.Refresh != ""
	c.mu.Unlock()

	if !hasRefresh {
		// Session clearing is visible before the error reaches the caller.
		c.clearSession(ctx)
		return err
	}

	newAccess := c.refreshAccessToken(ctx)
	if newAccess == "" {
		// A caller bailing out of a shared refresh says nothing about the
		// refresh itself; it may still succeed for everyone else.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.clearSession(ctx)
		return err
	}

	c.metricInc(MetricRequestRetried)
	start = time.Now()
	err = c.api.Call(ctx, method, path, newAccess, body, out)
	c.metrics.Observe(MetricRequestLatency, time.Since(start))
	return err
}

// Get performs an authenticated GET request.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

// Post performs an authenticated POST request with a JSON body.
//
// Post may return an error when input validation, dependency calls, or security checks fail.
// Post does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}

// Put performs an authenticated PUT request with a JSON body.
//
// Put may return an error when input validation, dependency calls, or security checks fail.
// Put does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, body, out)
}

// Delete performs an authenticated DELETE request.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state beyond the session unit and can be used concurrently with other Client methods.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}
