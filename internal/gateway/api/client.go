package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
)

// Session is the part of the session store the client needs.
type Session interface {
	Token() (string, bool)
	ClearToken() error
	Navigate(page domain.Page)
}

// Options describes a single request.
type Options struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Config stores client settings.
type Config struct {
	BaseURL       string
	RedirectDelay time.Duration
}

// Client talks to the ParcelBee REST API.
type Client struct {
	baseURL       string
	redirectDelay time.Duration
	http          *http.Client
	session       Session
	logger        logx.Logger
	metrics       *metrics.Metrics
	afterFunc     func(time.Duration, func())

	mu       sync.Mutex
	redirect func()
}

// NewClient creates a Client. The HTTP client has no timeout; callers bound
// requests with their context when they need to.
func NewClient(cfg Config, sess Session, logger logx.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		redirectDelay: cfg.RedirectDelay,
		http:          &http.Client{},
		session:       sess,
		logger:        logger,
		metrics:       m,
		afterFunc:     func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// AuthHeaders returns the JSON content type and the bearer token header.
// Authorization is always present, empty when there is no token.
func (c *Client) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	auth := ""
	if token, ok := c.session.Token(); ok {
		auth = "Bearer " + token
	}
	h.Set("Authorization", auth)
	return h
}

// Call performs a request and returns the parsed JSON body.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options, requireAuth bool) (json.RawMessage, error) {
	if requireAuth {
		if _, ok := c.session.Token(); !ok {
			return nil, apperr.ErrAuthenticationRequired
		}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.resolve(endpoint)

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if requireAuth {
		req.Header = c.AuthHeaders()
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	route := routeLabel(endpoint)
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.APIDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.APICalls.WithLabelValues(route, method, "canceled").Inc()
			return nil, fmt.Errorf("%s %s: %w", method, route, ctxErr)
		}
		c.metrics.APICalls.WithLabelValues(route, method, "network_error").Inc()
		c.logger.Warn("api call failed",
			logx.String("method", method),
			logx.String("endpoint", route),
			logx.Err(err),
		)
		return nil, &apperr.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.APICalls.WithLabelValues(route, method, "network_error").Inc()
		return nil, &apperr.NetworkError{Cause: err}
	}
	raw = bytes.TrimSpace(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.APICalls.WithLabelValues(route, method, statusOutcome(resp.StatusCode)).Inc()
		apiErr := c.handleAPIError(resp.StatusCode, raw, requireAuth)
		c.logger.Info("api call rejected",
			logx.String("method", method),
			logx.String("endpoint", route),
			logx.Int("status", resp.StatusCode),
			logx.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	c.metrics.APICalls.WithLabelValues(route, method, "ok").Inc()
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s %s: response is not valid JSON", method, route)
	}
	return json.RawMessage(raw), nil
}

// Do calls endpoint and decodes the response body into out.
func (c *Client) Do(ctx context.Context, endpoint string, opts Options, requireAuth bool, out any) error {
	raw, err := c.Call(ctx, endpoint, opts, requireAuth)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", routeLabel(endpoint), err)
	}
	return nil
}

// scheduleRedirect arranges the login navigation after redirectDelay.
func (c *Client) scheduleRedirect() {
	var once sync.Once
	fire := func() {
		once.Do(func() { c.session.Navigate(domain.PageLogin) })
	}
	c.mu.Lock()
	c.redirect = fire
	c.mu.Unlock()
	c.afterFunc(c.redirectDelay, fire)
}

// FlushRedirect runs a scheduled login navigation now instead of waiting for
// the delay. A short-lived process calls it before exiting.
func (c *Client) FlushRedirect() {
	c.mu.Lock()
	fire := c.redirect
	c.redirect = nil
	c.mu.Unlock()
	if fire != nil {
		fire()
	}
}

func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

var reNumericSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeLabel keeps metric cardinality bounded by hiding ids and queries.
func routeLabel(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	return reNumericSegment.ReplaceAllString(endpoint, "/{id}$1")
}

func statusOutcome(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}
