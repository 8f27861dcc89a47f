package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultBaseBackoff = 200 * time.Millisecond
	defaultMaxBackoff  = 5 * time.Second
	maxErrorBodyBytes  = 64 << 10
)

var tracer = otel.Tracer("erp-portal/backend")

type tokenKey struct{}

// WithToken stores the caller's backend bearer token in ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type Options struct {
	Name        string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	HTTPClient  *http.Client
	Logger      *logrus.Logger
	// DataEnvelope unwraps responses shaped as {"data": ...}.
	DataEnvelope bool
}

// Client is a small JSON client for one ERP backend.
type Client struct {
	name         string
	baseURL      *url.URL
	http         *http.Client
	timeout      time.Duration
	maxRetries   int
	baseBackoff  time.Duration
	maxBackoff   time.Duration
	dataEnvelope bool
	logger       *logrus.Entry

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, errors.New("backend: missing name")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, gerrors.Wrapf(err, "backend %s: invalid base URL", opts.Name)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend %s: base URL must be absolute, got %q", opts.Name, opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = defaultBaseBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		name:         opts.Name,
		baseURL:      base,
		http:         httpClient,
		timeout:      opts.Timeout,
		maxRetries:   opts.MaxRetries,
		baseBackoff:  opts.BaseBackoff,
		maxBackoff:   opts.MaxBackoff,
		dataEnvelope: opts.DataEnvelope,
		logger:       logger.WithField("backend", opts.Name),
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
	}, nil
}

func MustNew(opts Options) *Client {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Ping reports whether the backend answers at all; any status below 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Backend: c.name, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Backend: c.name, Method: http.MethodGet, Path: "/", Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// Do sends one JSON request. Idempotent reads are retried with exponential
// backoff on transport errors and 502/503/504. A response without body leaves
// out untouched.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return gerrors.Wrapf(err, "backend %s: encode %s %s", c.name, method, path)
		}
	}

	attempts := 1
	if isIdempotentRead(method) {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			getMetrics().retriesTotal.WithLabelValues(c.name, method).Inc()
			delay := backoff(attempt, c.baseBackoff, c.maxBackoff) + c.jitter(c.baseBackoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		retry, err := c.once(ctx, method, path, query, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"attempt": attempt + 1,
		}).Warn("backend request failed, retrying")
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, payload []byte, out any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.resolve(path, query)
	ctx, span := tracer.Start(ctx, "backend."+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("erp.backend", c.name),
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		),
	)
	defer span.End()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	getMetrics().requestLatency.WithLabelValues(c.name, method).Observe(time.Since(start).Seconds())
	if err != nil {
		getMetrics().requestsTotal.WithLabelValues(c.name, method, "unavailable").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return false, ctxErr
		}
		return true, &UnavailableError{Backend: c.name, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		getMetrics().requestsTotal.WithLabelValues(c.name, method, "error").Inc()
		span.SetStatus(codes.Error, resp.Status)
		return isRetryableStatus(resp.StatusCode), decodeError(c.name, method, path, resp.StatusCode, raw)
	}
	getMetrics().requestsTotal.WithLabelValues(c.name, method, "ok").Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, &UnavailableError{Backend: c.name, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if c.dataEnvelope {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
			raw = envelope.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, gerrors.Wrapf(err, "backend %s: decode %s %s", c.name, method, path)
	}
	return false, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	// path arrives escaped (see Path); keep the escaped form on the wire.
	raw := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		u.Path = unescaped
		u.RawPath = raw
	} else {
		u.Path = raw
		u.RawPath = ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) jitter(maxJitter time.Duration) time.Duration {
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return jitter(c.rnd, maxJitter)
}

func isIdempotentRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Path joins escaped segments: Path("purchases", id) -> "/purchases/<id>".
func Path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return "/" + strings.Join(escaped, "/")
}
