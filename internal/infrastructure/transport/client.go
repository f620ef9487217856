// Package transport implements port.SessionTransport against a remote pty
// backend: sessions are allocated over HTTP and streamed over websockets.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bnema/dumbmux/internal/application/port"
	"github.com/bnema/dumbmux/internal/domain/entity"
	"github.com/bnema/dumbmux/internal/logging"
)

const (
	// HTTP client timeout for session API requests.
	apiTimeout = 10 * time.Second

	// Maximum number of attempts for retryable requests.
	maxRetryAttempts = 3

	// Base delay used for exponential backoff between retries.
	retryBaseDelay = 100 * time.Millisecond

	// Maximum delay cap for exponential backoff between retries.
	retryMaxDelay = time.Second

	// Max random jitter added to each retry backoff.
	retryJitterMax = 50 * time.Millisecond

	// Upper bound on a session API response body.
	maxResponseSize = 64 * 1024

	defaultSessionsPath = "/api/sessions"
	defaultDialTimeout  = 10 * time.Second
	defaultPingInterval = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	BaseURL      string // http(s)://host[:port]
	SessionsPath string // Collection path for sessions, e.g. /api/sessions
	DialTimeout  time.Duration
	PingInterval time.Duration
}

// sessionResponse is the backend's reply to a session allocation.
type sessionResponse struct {
	ID string `json:"id"`
}

// Client talks to the session backend.
type Client struct {
	base         *url.URL
	sessionsPath string
	pingInterval time.Duration
	http         *http.Client
	dialer       *websocket.Dialer
	randInt63    func(n int64) int64
	sleep        func(ctx context.Context, d time.Duration) error
}

var _ port.SessionTransport = (*Client)(nil)

// NewClient validates cfg and creates a client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", cfg.BaseURL)
	}

	sessionsPath := cfg.SessionsPath
	if sessionsPath == "" {
		sessionsPath = defaultSessionsPath
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	pingInterval := cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	return &Client{
		base:         base,
		sessionsPath: sessionsPath,
		pingInterval: pingInterval,
		http:         &http.Client{Timeout: apiTimeout},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: dialTimeout,
		},
		randInt63: rand.Int63n,
		sleep:     waitForBackoff,
	}, nil
}

// CreateSession allocates a remote session.
func (c *Client) CreateSession(ctx context.Context) (entity.SessionID, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sessionURL(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("session api returned status %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode session: %w", err)
	}
	if body.ID == "" {
		return "", errors.New("session api returned an empty id")
	}

	log.Debug().Str("session_id", body.ID).Msg("remote session allocated")
	return entity.SessionID(body.ID), nil
}

// DeleteSession releases a remote session. A session the backend no longer
// knows counts as deleted.
func (c *Client) DeleteSession(ctx context.Context, id entity.SessionID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.sessionURL(string(id)), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		logging.FromContext(ctx).Debug().Str("session_id", string(id)).Msg("remote session released")
		return nil
	default:
		return fmt.Errorf("session api returned status %d", resp.StatusCode)
	}
}

// OpenChannel returns a channel that connects in the background. handler
// sees Opened once the websocket is up, or Closed if it never comes up.
func (c *Client) OpenChannel(ctx context.Context, id entity.SessionID, handler port.ChannelHandler) (port.Channel, error) {
	wsURL, err := c.streamURL(id)
	if err != nil {
		return nil, err
	}

	ch := newChannel(channelConfig{
		url:          wsURL,
		dialer:       c.dialer,
		handler:      handler,
		pingInterval: c.pingInterval,
		logger:       logging.FromContext(ctx).With().Str("session_id", string(id)).Logger(),
	})
	go ch.run(context.WithoutCancel(ctx))

	return ch, nil
}

func (c *Client) sessionURL(elem ...string) string {
	parts := append([]string{c.sessionsPath}, elem...)
	return c.base.JoinPath(parts...).String()
}

// streamURL returns the websocket endpoint of a session.
func (c *Client) streamURL(id entity.SessionID) (string, error) {
	u := c.base.JoinPath(c.sessionsPath, string(id), "ws")
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func (c *Client) doRequestWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.http.Do(req)
		if err != nil {
			if !isRetryableRequestError(err) || attempt == maxRetryAttempts {
				return nil, err
			}
			if waitErr := c.sleep(ctx, retryDelayForAttempt(attempt, c.randInt63)); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		if !isRetryableStatus(resp.StatusCode) || attempt == maxRetryAttempts {
			return resp, nil
		}

		_ = resp.Body.Close()
		if waitErr := c.sleep(ctx, retryDelayForAttempt(attempt, c.randInt63)); waitErr != nil {
			return nil, waitErr
		}
	}
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= http.StatusInternalServerError
}

func isRetryableRequestError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED:
			return true
		}
	}
	return false
}

func waitForBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryDelayForAttempt(attempt int, randInt63 func(n int64) int64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := retryBaseDelay << (attempt - 1)
	if randInt63 != nil && retryJitterMax > 0 {
		delay += time.Duration(randInt63(int64(retryJitterMax)))
	}
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
