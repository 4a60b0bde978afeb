package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// RequestIDContextKey carries the ID of the dialog session issuing a request
const RequestIDContextKey contextKey = "osmf-request-id"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("engine error")
)

// Engine is the client for the firefighter simulation backend
type Engine struct {
	baseURL string
	http    *resty.Client
}

// Config holds the configuration for the engine client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new engine client with the given configuration
func NewClient(cfg Config) (*Engine, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(u.String(), "/")
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		cli.SetAuthToken(cfg.APIKey)
	}

	return &Engine{baseURL: baseURL, http: cli}, nil
}

// BaseURL returns the normalized engine URL
func (c *Engine) BaseURL() string { return c.baseURL }

// request builds a request carrying the session ID from ctx, if any
func (c *Engine) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if id, ok := ctx.Value(RequestIDContextKey).(string); ok && id != "" {
		req.SetHeader("X-Request-ID", id)
	}
	return req
}

// WithRequestID returns a new context with the request ID set
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, id)
}

func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: HTTP %d: %s", ErrServer, code, body)
	default:
		return fmt.Errorf("HTTP %d: %s", code, body)
	}
}
