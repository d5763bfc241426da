// Package upstream is the typed HTTP adapter for the EventTogether REST
// API. All outbound requests flow through a single code path that attaches
// the bearer token, measures the call, and decodes error bodies once, so
// no call site ever inspects a response shape itself.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the upstream API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a cheap, copyable handle on the upstream API. A zero token
// means requests go out unauthenticated; WithToken returns a bound copy.
type Client struct {
	base          string
	httpc         *http.Client
	token         string
	onAuthExpired func()
	log           zerolog.Logger
}

// New builds a Client. A default timeout is applied when none is provided.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		httpc: &http.Client{Timeout: timeout},
		log:   log,
	}
}

// WithToken returns a copy of the client that attaches token as a bearer
// credential on every request.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// OnAuthExpired returns a copy of the client that invokes fn whenever the
// upstream answers 401, before the error reaches the caller. This is the
// global interceptor: it fires regardless of which call triggered it.
func (c *Client) OnAuthExpired(fn func()) *Client {
	cp := *c
	cp.onAuthExpired = fn
	return &cp
}

// doJSON sends payload (when non-nil) as a JSON body and decodes a 2xx
// response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("upstream: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// doForm sends values form-encoded; the login endpoint requires it.
func (c *Client) doForm(ctx context.Context, method, path string, values url.Values, out any) error {
	return c.do(ctx, method, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		// Interceptor fires before the caller's error handler runs: by
		// the time a page-level handler sees this error the session is
		// already gone.
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return &domain.APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).
			Str("detail", apiErr.Detail).Msg("upstream call failed")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ping checks upstream reachability. The API answers its root path with a
// small status document; any 2xx counts as healthy.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/", nil, nil)
}

// decodeDetail extracts the backend's "detail" message from an error body.
// FastAPI-style backends send either a plain string or a structured list;
// anything unreadable yields "" and callers fall back to a generic message.
func decodeDetail(r io.Reader) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&envelope); err != nil {
		return ""
	}
	if len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	// Structured validation detail: keep it compact rather than dropping it.
	return string(envelope.Detail)
}
