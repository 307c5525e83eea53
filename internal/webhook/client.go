// Package webhook posts a completed application to the intake endpoint.
//
// One request per call, no retries: a non-2xx status or a transport failure
// is reported to the caller, which records it as a failed submission.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNotOK is returned (wrapped) when the endpoint answers with a non-2xx status.
var ErrNotOK = errors.New("webhook response was not ok")

// maxResponseBody bounds how much of the response body is read.
const maxResponseBody = 1 << 20

// Config tunes the underlying HTTP transport.
type Config struct {
	// Timeout bounds the whole request, including reading the body. A
	// context deadline can still shorten it.
	Timeout time.Duration

	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration
	MaxIdleConns    int
}

// DefaultConfig returns transport settings suited to a single remote host.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		DialTimeout:     5 * time.Second,
		KeepAlive:       30 * time.Second,
		TLSHandshake:    5 * time.Second,
		ResponseHeader:  20 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		MaxIdleConns:    10,
	}
}

// NewHTTPClient builds an *http.Client from cfg.
func NewHTTPClient(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}

// Response describes a successful post.
type Response struct {
	Status   int
	Body     any // decoded JSON body, nil when the body is empty or not JSON
	Duration time.Duration
}

// Client posts JSON payloads to one fixed URL.
type Client struct {
	url    string
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// New builds a client posting to url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		client: NewHTTPClient(DefaultConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Submit encodes payload as JSON and posts it.
func (c *Client) Submit(ctx context.Context, payload any) (*Response, error) {
	ctx, span := otel.Tracer("investogun/webhook").Start(ctx, "webhook.submit")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode payload")
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	span.SetAttributes(attribute.Int("webhook.request_bytes", len(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	duration := time.Since(start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: status %d", ErrNotOK, resp.StatusCode)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	// The body is optional on success; a broken one is treated as absent.
	var respBody any
	if readErr != nil {
		span.RecordError(readErr)
	} else {
		respBody = decodeOptional(raw)
	}

	return &Response{
		Status:   resp.StatusCode,
		Body:     respBody,
		Duration: duration,
	}, nil
}

// decodeOptional parses raw as JSON, returning nil when it is empty or not JSON.
func decodeOptional(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
