// Package transport implements the HTTP access layer for the Secret Santa
// backend: request building with bearer auth, JSON decoding, structured
// error parsing, bounded retries, and in-flight deduplication of mutating
// calls.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"santactl/internal/apierr"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	defaultTimeout    = 30 * time.Second
)

// TokenSource yields the bearer token attached to outgoing requests. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:4000".
	BaseURL string
	// HTTPClient is the underlying client; a default with a 30s timeout
	// is used when nil.
	HTTPClient *http.Client
	// MaxRetries caps how many times a failed attempt is re-issued.
	MaxRetries int
	// RetryBaseDelay is the backoff base; retry n waits base*2^n.
	RetryBaseDelay time.Duration
	// Tokens supplies the bearer token, typically the session manager.
	Tokens TokenSource
	// OnUnauthorized is invoked whenever the backend answers 401. The
	// hosting application decides what to do about it (the web client
	// redirected to the login route); the transport layer itself takes
	// no navigation decision.
	OnUnauthorized func()
	Logger         *zap.Logger
}

// Client issues JSON requests against the backend.
type Client struct {
	baseURL        string
	http           *http.Client
	maxRetries     uint64
	baseDelay      time.Duration
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger

	inflight singleflight.Group
}

// New builds a Client from cfg, filling in defaults for unset fields.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		http:           httpClient,
		maxRetries:     uint64(maxRetries),
		baseDelay:      baseDelay,
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}
}

type callOptions struct {
	dedupe bool
}

// Option adjusts a single call.
type Option func(*callOptions)

// WithoutDedup disables in-flight deduplication for a mutating call.
func WithoutDedup() Option {
	return func(o *callOptions) { o.dedupe = false }
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, false)
}

// Post issues a POST request. Identical concurrent calls are collapsed
// into one network request unless WithoutDedup is given.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.mutate(ctx, http.MethodPost, endpoint, body, out, opts)
}

// Put issues a PUT request with the same deduplication behavior as Post.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.mutate(ctx, http.MethodPut, endpoint, body, out, opts)
}

// Patch issues a PATCH request with the same deduplication behavior as Post.
func (c *Client) Patch(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.mutate(ctx, http.MethodPatch, endpoint, body, out, opts)
}

// Delete issues a DELETE request with the same deduplication behavior as
// Post.
func (c *Client) Delete(ctx context.Context, endpoint string, out any, opts ...Option) error {
	return c.mutate(ctx, http.MethodDelete, endpoint, nil, out, opts)
}

func (c *Client) mutate(ctx context.Context, method, endpoint string, body, out any, opts []Option) error {
	options := callOptions{dedupe: true}
	for _, opt := range opts {
		opt(&options)
	}
	return c.do(ctx, method, endpoint, body, out, options.dedupe)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, dedupe bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	var raw []byte
	var err error
	if dedupe {
		// Identical concurrent mutating calls attach to the same pending
		// request; singleflight drops the entry once it settles, so later
		// identical calls go back to the network.
		key := method + " " + endpoint + " " + string(payload)
		var shared any
		shared, err, _ = c.inflight.Do(key, func() (any, error) {
			return c.roundTrip(ctx, method, endpoint, payload)
		})
		if shared != nil {
			raw = shared.([]byte)
		}
	} else {
		raw, err = c.roundTrip(ctx, method, endpoint, payload)
	}
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// roundTrip performs one logical request, re-issuing failed attempts per
// the retry policy. The request ID stays constant across attempts.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	requestID := uuid.NewString()

	policy := c.retryPolicy(ctx)
	notify := func(err error, next time.Duration) {
		c.logger.Debug("retrying request",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("backoff", next),
			zap.Error(err))
	}

	return retryWithData(func() ([]byte, error) {
		raw, err := c.attempt(ctx, method, endpoint, payload, requestID)
		if err != nil && !apierr.Retryable(err) {
			return nil, permanent(err)
		}
		return raw, err
	}, policy, notify)
}

// attempt issues a single HTTP request and maps the response into either
// raw body bytes or an *apierr.Error.
func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, requestID string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apierr.Network(err)
	}
	defer res.Body.Close()

	// 204 carries no body by contract; do not touch the decoder.
	if res.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apierr.Network(err)
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return data, nil
	}

	apiError := parseError(res.StatusCode, data)
	switch res.StatusCode {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case http.StatusForbidden:
		c.logger.Warn("access denied - insufficient permissions",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID))
	}
	return nil, apiError
}

// parseError extracts the structured {error} body, falling back to a
// message synthesized from the status code.
func parseError(status int, body []byte) *apierr.Error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return apierr.New(status, payload.Error)
	}
	return apierr.FromStatus(status, http.StatusText(status))
}

func decode(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
