// Package client provides the consuming side of the auth contract: an
// http.RoundTripper that attaches bearer tokens to outbound requests and
// recovers from access-token expiry transparently to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned once the refresh token has been rejected.
// The session is torn down and every request fails with this error until
// new tokens are installed via SetTokens.
var ErrSessionExpired = errors.New("client: session expired")

const defaultRefreshTimeout = 10 * time.Second

// Interceptor attaches the access token to outbound requests and, on a 401
// response, coordinates a single in-flight refresh shared by all concurrent
// requests. Requests that observe a 401 while a refresh is running suspend
// until it completes and then retry with the one refreshed token; if the
// refresh fails they all fail together and the session is closed.
type Interceptor struct {
	base           http.RoundTripper
	refreshURL     string
	refreshTimeout time.Duration

	mu      sync.RWMutex
	access  string
	refresh string
	closed  bool

	group singleflight.Group
}

// Option customizes an Interceptor.
type Option func(*Interceptor)

// WithRefreshTimeout bounds the refresh call. A zero or negative value keeps
// the default.
func WithRefreshTimeout(d time.Duration) Option {
	return func(i *Interceptor) {
		if d > 0 {
			i.refreshTimeout = d
		}
	}
}

// NewInterceptor builds an interceptor around base (http.DefaultTransport
// when nil) that refreshes sessions against refreshURL.
func NewInterceptor(base http.RoundTripper, refreshURL string, opts ...Option) *Interceptor {
	if base == nil {
		base = http.DefaultTransport
	}
	i := &Interceptor{
		base:           base,
		refreshURL:     refreshURL,
		refreshTimeout: defaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetTokens installs a token pair, reopening the session if it was closed.
func (i *Interceptor) SetTokens(access, refresh string) {
	i.mu.Lock()
	i.access = access
	i.refresh = refresh
	i.closed = false
	i.mu.Unlock()
}

// AccessToken returns the current access token.
func (i *Interceptor) AccessToken() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.access
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	i.mu.RLock()
	access, closed := i.access, i.closed
	i.mu.RUnlock()
	if closed {
		return nil, ErrSessionExpired
	}

	resp, err := i.send(req, access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// The 401 body is replaced by either the retried response or an error.
	drain(resp)

	newAccess, err := i.refreshShared(req.Context(), access)
	if err != nil {
		return nil, err
	}
	return i.send(req, newAccess)
}

// send issues a clone of req carrying the given access token. The body is
// rewound through GetBody so the request can be replayed after a refresh.
func (i *Interceptor) send(req *http.Request, access string) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	if access != "" {
		clone.Header.Set("Authorization", "Bearer "+access)
	}
	return i.base.RoundTrip(clone)
}

// refreshShared returns the access token to retry with. staleAccess is the
// token the failed request carried; when another caller already completed a
// refresh, the stored token differs and no further refresh is issued.
func (i *Interceptor) refreshShared(ctx context.Context, staleAccess string) (string, error) {
	i.mu.RLock()
	current, closed := i.access, i.closed
	i.mu.RUnlock()
	if closed {
		return "", ErrSessionExpired
	}
	if current != staleAccess {
		return current, nil
	}

	v, err, _ := i.group.Do("refresh", func() (interface{}, error) {
		return i.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type refreshEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	} `json:"data"`
}

// doRefresh performs the single network-side refresh call. Any failure is
// terminal: the session closes and pending requests fail with the error.
func (i *Interceptor) doRefresh(ctx context.Context) (string, error) {
	i.mu.RLock()
	refresh := i.refresh
	i.mu.RUnlock()
	if refresh == "" {
		i.teardown()
		return "", ErrSessionExpired
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.refreshTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"refresh_token": refresh})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.refreshURL, bytes.NewReader(payload))
	if err != nil {
		i.teardown()
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.base.RoundTrip(req)
	if err != nil {
		i.teardown()
		return "", fmt.Errorf("client: refresh call: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		i.teardown()
		return "", fmt.Errorf("client: refresh rejected with status %d: %w", resp.StatusCode, ErrSessionExpired)
	}

	var envelope refreshEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		i.teardown()
		return "", fmt.Errorf("client: decode refresh response: %w", err)
	}
	tokens := envelope.Data.Tokens
	if !envelope.Success || tokens.AccessToken == "" {
		i.teardown()
		return "", ErrSessionExpired
	}

	i.mu.Lock()
	i.access = tokens.AccessToken
	if tokens.RefreshToken != "" {
		i.refresh = tokens.RefreshToken
	}
	i.mu.Unlock()

	return tokens.AccessToken, nil
}

// teardown closes the session; treated as a terminal logout.
func (i *Interceptor) teardown() {
	i.mu.Lock()
	i.access = ""
	i.refresh = ""
	i.closed = true
	i.mu.Unlock()
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
