// Package upstream implements the shared request/response policy applied to
// every external service call: 2xx succeeds (optionally decoding JSON),
// 404 maps to ErrNotFound, 429 to ErrRateLimited, any other non-2xx to a
// StatusError, and transport failures to a ConnectError. Callers branch with
// errors.Is / errors.As; nothing here unwinds past the request boundary.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 8 * time.Second

// ErrNotFound marks a 404 from an upstream service. Whether that is an
// error at all is the caller's decision (an unused access code is expected).
var ErrNotFound = errors.New("upstream: not found")

// ErrRateLimited marks a 429; the UI shows a retry message rather than the
// generic failure page.
var ErrRateLimited = errors.New("upstream: rate limited")

// StatusError is any other non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s returned status %d", e.URL, e.Status)
}

// ConnectError is a transport-level failure: DNS, refused connection or
// timeout before any response arrived.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("upstream: failed to connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// BasicAuth carries the credentials a service expects, if any.
type BasicAuth struct {
	Username string
	Password string
}

// Caller issues requests with the uniform policy above. One Caller is shared
// by all clients talking to the same service.
type Caller struct {
	http *http.Client
	auth BasicAuth
	log  *zap.Logger
}

// NewCaller builds a Caller. A zero timeout falls back to the default; a nil
// logger is replaced with a no-op one.
func NewCaller(auth BasicAuth, timeout time.Duration, log *zap.Logger) *Caller {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Caller{
		http: &http.Client{Timeout: timeout},
		auth: auth,
		log:  log,
	}
}

// Do performs one call. When body is non-nil it is sent as a JSON request
// body; when out is non-nil a 2xx response body is decoded into it.
func (c *Caller) Do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.auth.Username != "" || c.auth.Password != "" {
		req.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("client failed to connect", zap.String("url", url))
		return &ConnectError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Debug("successfully connected to service", zap.String("url", url))
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("upstream: decode response from %s: %w", url, err)
			}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		// expected in "code not recognized" contexts, so no error-level noise
		c.log.Debug("not found response", zap.String("url", url))
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusTooManyRequests:
		c.log.Warn("rate limited by service", zap.String("url", url))
		return fmt.Errorf("%w: %s", ErrRateLimited, url)
	default:
		c.log.Error("error in response",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode))
		return &StatusError{URL: url, Status: resp.StatusCode}
	}
}
