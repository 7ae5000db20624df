// Package backend implements HTTP clients for the collaborator services the
// workflow depends on: the location service, the product and purchase-order
// catalogs, and the inbound-receipt endpoint of the inventory service.
//
// Upstream responses are inconsistent about field naming (snake_case and
// camelCase variants of the same shape exist); everything is normalized here
// so the domain model only ever sees one canonical shape.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("dockhand/backend")

// Config holds backend client configuration.
type Config struct {
	// BaseURL of the backend API, e.g. http://inventory.local/api
	BaseURL string

	// Timeout per request (default 15s)
	Timeout time.Duration
}

// Client is the HTTP client shared by all collaborator calls. Responses are
// transparently gzip-decoded.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get performs a GET and returns the raw response body. Callers decode it
// through the normalization helpers.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "backend.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.path", path)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("call %s: %s: %s", path, resp.Status, readReason(resp.Body))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	return raw, nil
}

// postJSON performs a POST and returns the raw response for the caller to
// interpret. The response body is fully read and the connection released.
func (c *Client) postJSON(ctx context.Context, path string, body any) (status int, respBody []byte, err error) {
	ctx, span := tracer.Start(ctx, "backend.post",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.path", path)),
	)
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s response: %w", path, err)
	}

	return resp.StatusCode, respBody, nil
}

// readReason extracts a short failure reason from an error response body.
// Backends disagree on the envelope; try the usual keys, fall back to the
// raw body.
func readReason(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var envelope map[string]json.RawMessage
	if json.Unmarshal(raw, &envelope) == nil {
		for _, key := range []string{"error", "message", "detail", "reason"} {
			var s string
			if v, ok := envelope[key]; ok && json.Unmarshal(v, &s) == nil && s != "" {
				return s
			}
		}
	}

	return strings.TrimSpace(string(raw))
}
