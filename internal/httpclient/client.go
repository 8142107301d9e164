// Package httpclient provides an instrumented JSON HTTP client with
// OTEL tracing and metrics, shaped for RPC-style POST endpoints.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDialKeepAlive   = 10 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Options holds configuration for the client.
type Options struct {
	providerName   string
	requestTimeout time.Duration
	headers        map[string]string
	transport      http.RoundTripper
}

// Option configures the client.
type Option func(*Options)

// WithProviderName labels metrics and spans with the upstream service name.
func WithProviderName(name string) Option {
	return func(o *Options) { o.providerName = name }
}

// WithRequestTimeout overrides the default request timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.requestTimeout = timeout }
}

// WithHeaders sets headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) { o.headers = headers }
}

// WithTransport sets a custom transport; it still gets wrapped with the
// OTEL instrumentation.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.transport = rt }
}

// Response carries the status and raw body of a completed request.
type Response struct {
	StatusCode int
	body       []byte
}

// Body returns the raw response body.
func (r *Response) Body() []byte { return r.body }

// IsError reports whether the status code indicates an error (>= 400).
func (r *Response) IsError() bool { return r.StatusCode >= 400 }

// Client posts JSON payloads to an endpoint with tracing, a per-provider
// request counter and a shared connection pool.
type Client struct {
	httpClient     *http.Client
	providerName   string
	headers        map[string]string
	tracer         trace.Tracer
	requestCounter metric.Int64Counter
}

// New creates an instrumented client.
func New(opts ...Option) (*Client, error) {
	options := &Options{
		providerName:   "default",
		requestTimeout: defaultRequestTimeout,
	}
	for _, o := range opts {
		o(options)
	}

	transport := options.transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}

	httpClient := &http.Client{
		Timeout: options.requestTimeout,
		Transport: otelhttp.NewTransport(transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	meter := otel.Meter("httpclient",
		metric.WithInstrumentationAttributes(attribute.String("provider", options.providerName)),
	)
	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("HTTP requests issued"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient:     httpClient,
		providerName:   options.providerName,
		headers:        options.headers,
		tracer:         otel.Tracer("httpclient"),
		requestCounter: requestCounter,
	}, nil
}

// PostJSON marshals payload, posts it to url and unmarshals the body
// into result when result is non-nil and the body is non-empty.
func (c *Client) PostJSON(ctx context.Context, url string, payload, result any) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", url),
			attribute.String("provider", c.providerName),
		),
	)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal payload")
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordError(ctx, span, err)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		c.count(ctx, false)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode, body: respBody}

	if out.IsError() {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		c.count(ctx, false)
		return out, nil
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode body")
			c.count(ctx, false)
			return out, fmt.Errorf("decode response body: %w", err)
		}
	}

	c.count(ctx, true)
	return out, nil
}

func (c *Client) recordError(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)

	var netErr net.Error
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}

	span.SetStatus(codes.Error, err.Error())
	c.count(ctx, false)
}

func (c *Client) count(ctx context.Context, success bool) {
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.providerName),
		attribute.Bool("success", success),
	))
}
