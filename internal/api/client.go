package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/ammi749/gamekeys/internal/domain"
)

// CredentialSource supplies the token pair attached to outbound requests
// and receives the results of a refresh. The session manager implements it.
type CredentialSource interface {
	// TokenPair returns the current pair; ok is false when anonymous.
	TokenPair() (pair domain.TokenPair, ok bool)
	// ReplaceAccess swaps in a refreshed access token, keeping the refresh token.
	ReplaceAccess(access string)
	// Invalidate clears both tokens after an unrecoverable refresh failure.
	Invalidate()
}

// RequestOption mutates an outbound request before dispatch.
type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Client is the request pipeline every service goes through: it attaches
// the bearer token, routes calls through a circuit breaker, and performs a
// single-flight token refresh when the API answers 401.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	breaker *gobreaker.CircuitBreaker[*http.Response]
	sfg     singleflight.Group // collapses concurrent refreshes onto one call

	onSessionExpired func()
	onRefreshing     func()
	onRefreshed      func()
}

func NewClient(baseURL string, creds CredentialSource) *Client {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 3,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		creds:   creds,
		breaker: breaker,
	}
}

// OnSessionExpired registers a hook invoked after a failed refresh has torn
// the session down (the session manager uses it to reset its state).
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// OnRefreshing registers a hook invoked when a token exchange actually goes
// out on the wire. Callers that piggyback on an exchange already in flight
// do not fire it again.
func (c *Client) OnRefreshing(fn func()) {
	c.onRefreshing = fn
}

// OnRefreshed registers a hook invoked after a token exchange succeeded and
// the new access token is installed.
func (c *Client) OnRefreshed(fn func()) {
	c.onRefreshed = fn
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do sends one API request. On a 401 it refreshes the token pair (at most
// one refresh in flight process-wide, shared by all waiting requests) and
// replays the request exactly once with the new access token. A request
// that still 401s after its replay surfaces the error without another
// refresh attempt.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	// Refresh proactively when the stored access token is already expired,
	// saving the round-trip that would only come back 401.
	if pair, ok := c.creds.TokenPair(); ok && pair.Refresh != "" && accessTokenExpired(pair.Access) {
		if err := c.refresh(ctx, pair.Access); err != nil {
			return err
		}
	}

	status, data, err := c.send(ctx, method, path, payload, opts)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		pair, ok := c.creds.TokenPair()
		if !ok || pair.Refresh == "" {
			return newHTTPError(status, data)
		}
		if err := c.refresh(ctx, pair.Access); err != nil {
			return err
		}
		status, data, err = c.send(ctx, method, path, payload, opts)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return newHTTPError(status, data)
		}
	}

	if status < 200 || status >= 300 {
		return newHTTPError(status, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, opts []RequestOption) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Token is read per attempt so a replay picks up the refreshed access token.
	if pair, ok := c.creds.TokenPair(); ok {
		req.Header.Set("Authorization", "Bearer "+pair.Access)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	return resp.StatusCode, data, nil
}

const refreshKey = "token-refresh"

// refresh exchanges the refresh token for a new access token. Concurrent
// callers collapse onto a single in-flight exchange and all observe its
// outcome; a caller whose stale token was already replaced by an earlier
// refresh skips the exchange entirely. Any failure tears the session down:
// stale refresh tokens have no recovery path besides logging in again.
func (c *Client) refresh(ctx context.Context, staleAccess string) error {
	_, err, _ := c.sfg.Do(refreshKey, func() (any, error) {
		pair, ok := c.creds.TokenPair()
		if !ok || pair.Refresh == "" {
			return nil, ErrSessionExpired
		}
		if pair.Access != staleAccess {
			return pair.Access, nil // already refreshed since the caller failed
		}

		if c.onRefreshing != nil {
			c.onRefreshing()
		}
		access, err := c.exchangeRefreshToken(ctx, pair.Refresh)
		if err != nil {
			c.creds.Invalidate()
			if c.onSessionExpired != nil {
				c.onSessionExpired()
			}
			return nil, ErrSessionExpired
		}

		c.creds.ReplaceAccess(access)
		if c.onRefreshed != nil {
			c.onRefreshed()
		}
		return access, nil
	})
	return err
}

// exchangeRefreshToken is a bare call: no bearer header, no retry, so a 401
// here can never recurse into another refresh.
func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", newHTTPError(resp.StatusCode, data)
	}

	var parsed struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal refresh response: %w", err)
	}
	if parsed.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return parsed.Access, nil
}
