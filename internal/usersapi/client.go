// Package usersapi is an HTTP client for the external Users API.
package usersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"userdesk/internal/model"
)

// ErrDecode is returned when a list response cannot be read as a sequence of users.
var ErrDecode = errors.New("decode users response")

// Client is the set of Users API calls the controller depends on.
type Client interface {
	// List fetches every user. The response status is not inspected; any body that decodes as a
	// JSON array of users is accepted.
	List(ctx context.Context) ([]model.User, error)

	// Create posts a new user and returns the response status code. A non-nil error means the
	// request never produced a response.
	Create(ctx context.Context, req model.CreateUserRequest) (int, error)

	// Delete removes a user by id and returns the response status code.
	Delete(ctx context.Context, id model.ID) (int, error)
}

// Option configures an httpClient.
type Option func(*httpClient)

// WithHTTPClient replaces the underlying *http.Client. Instrumentation is not added to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) { c.timeout = d }
}

// WithRegisterer records client request metrics in reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *httpClient) { c.reg = reg }
}

type httpClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	reg     prometheus.Registerer
}

// NewClient builds a Users API client rooted at baseURL (e.g. http://localhost:5000/api).
func NewClient(baseURL string, opts ...Option) (Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute: %q", baseURL)
	}

	c := &httpClient{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		rt, err := newTransport(http.DefaultTransport, c.reg)
		if err != nil {
			return nil, err
		}
		c.http = &http.Client{Transport: rt, Timeout: c.timeout}
	} else if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	return c, nil
}

// newTransport wraps base with prometheus counters and an otel client span per request.
func newTransport(base http.RoundTripper, reg prometheus.Registerer) (http.RoundTripper, error) {
	rt := base
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		rt = promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, rt))
	}
	return otelhttp.NewTransport(rt,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "usersapi " + r.Method
		}),
	), nil
}

func (c *httpClient) usersURL() string { return c.baseURL + "/users" }

func (c *httpClient) List(ctx context.Context) ([]model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer resp.Body.Close()

	var users []model.User
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrDecode, resp.StatusCode, err)
	}
	// The body must hold exactly one JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: status %d: trailing data after users array", ErrDecode, resp.StatusCode)
	}
	if users == nil {
		// A literal null is not a list.
		return nil, fmt.Errorf("%w: status %d: null body", ErrDecode, resp.StatusCode)
	}
	return users, nil
}

func (c *httpClient) Create(ctx context.Context, in model.CreateUserRequest) (int, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL(), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doStatus(req, "create user")
}

func (c *httpClient) Delete(ctx context.Context, id model.ID) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.usersURL()+"/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return 0, err
	}
	return c.doStatus(req, "delete user")
}

func (c *httpClient) doStatus(req *http.Request, op string) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// IsSuccess reports whether status is in the 200-299 range.
func IsSuccess(status int) bool {
	return status >= 200 && status <= 299
}
