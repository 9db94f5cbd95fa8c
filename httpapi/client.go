package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/fincue/sessionkit"
	"github.com/fincue/sessionkit/token"
)

// Client defines a public type used by sessionkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	clientID  string
}

// Option defines a public type used by sessionkit APIs.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The default client
// has no timeout; callers control deadlines through contexts.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
//
// WithUserAgent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New returns a client targeting the backend at baseURL. Every request
// carries an X-Client-ID header identifying this client instance.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		userAgent: "sessionkit/1.0",
		clientID:  uuid.NewString(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login exchanges credentials for a token pair using the form-encoded
// password grant.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Login(ctx context.Context, email, password string) (token.Pair, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {email},
		"password":   {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return token.Pair{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var pair token.Pair
	if err := c.do(req, &pair); err != nil {
		return token.Pair{}, err
	}

	return pair, nil
}

// Register creates an account.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/auth/register", body)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

// Refresh exchanges a refresh token for a new pair.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/auth/refresh", body)
	if err != nil {
		return token.Pair{}, err
	}

	var pair token.Pair
	if err := c.do(req, &pair); err != nil {
		return token.Pair{}, err
	}

	return pair, nil
}

// Logout revokes a refresh token remotely.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/auth/logout", body)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

// Call performs a generic authenticated request against the backend.
//
// Call may return an error when input validation, dependency calls, or security checks fail.
// Call does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Call(ctx context.Context, method, path, accessToken string, body, out any) error {
	req, err := c.jsonRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.do(req, out)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}

	return nil
}

// decodeError turns a non-2xx response into *sessionkit.APIError, reading
// the backend's {"detail": ...} envelope when present.
func decodeError(resp *http.Response) error {
	apiErr := &sessionkit.APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &envelope) != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	// detail is usually a string, but validation failures ship a structure.
	var detail string
	if json.Unmarshal(envelope.Detail, &detail) == nil {
		apiErr.Message = detail
	} else {
		apiErr.Message = string(envelope.Detail)
	}

	return apiErr
}
