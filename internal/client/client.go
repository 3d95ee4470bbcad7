package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/routes"
	"shopkeeper/internal/store"
	"shopkeeper/internal/transform"
	"shopkeeper/pkg/logger"
	"shopkeeper/pkg/middleware"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	Timeout time.Duration
	// RateLimit is the sustained number of requests per second, zero disables throttling.
	RateLimit float64
	Burst     int
	UserAgent string
	// Headers are sent with every request. Authorization is always replaced.
	Headers map[string]string
}

func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		RateLimit: 2,
		Burst:     40,
		UserAgent: "shopkeeper",
	}
}

// Client talks to the admin REST API of one store and converts every
// response into cached entities of that store.
type Client struct {
	store     *store.Store
	auth      AuthEngine
	mapper    *transform.Mapper
	http      *http.Client
	baseURL   string
	userAgent string
	headers   http.Header
	log       *logger.BaseLogger
	do        middleware.RequestFunc
}

type Option func(*Client)

// WithRecorder instruments the transport with request metrics.
func WithRecorder(rec middleware.Recorder) Option {
	return func(c *Client) {
		c.http.Transport = middleware.InstrumentTransport(c.http.Transport, rec)
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func New(s *store.Store, cfg Config, log *logger.BaseLogger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewLogger(nil, "")
	}
	headers := make(http.Header)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	c := &Client{
		store:     s,
		auth:      NewBasicAuth(s),
		mapper:    transform.NewMapper(s),
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   adminURL(s.URL),
		userAgent: cfg.UserAgent,
		headers:   headers,
		log:       log.WithPrefix("[" + s.Name + "]"),
	}
	for _, opt := range opts {
		opt(c)
	}

	mws := []middleware.Middleware{middleware.Logging(c.log)}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		mws = append(mws, middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}
	c.do = middleware.Chain(c.doRequest, mws...)
	return c
}

// adminURL accepts a bare shop domain or a full origin.
func adminURL(shop string) string {
	shop = strings.TrimRight(shop, "/")
	if !strings.Contains(shop, "://") {
		shop = "https://" + shop
	}
	return shop + "/admin/"
}

func (c *Client) Store() *store.Store {
	return c.store
}

func (c *Client) Fetch(ctx context.Context, t entity.Type, opts ...RequestOption) ([]*entity.Entity, error) {
	return c.entities(ctx, routes.Fetch, t, opts)
}

func (c *Client) List(ctx context.Context, t entity.Type, opts ...RequestOption) ([]*entity.Entity, error) {
	return c.entities(ctx, routes.List, t, opts)
}

func (c *Client) Create(ctx context.Context, t entity.Type, opts ...RequestOption) ([]*entity.Entity, error) {
	return c.entities(ctx, routes.Create, t, opts)
}

func (c *Client) Update(ctx context.Context, t entity.Type, opts ...RequestOption) ([]*entity.Entity, error) {
	return c.entities(ctx, routes.Update, t, opts)
}

// Delete returns the entities echoed back by the API, usually none.
func (c *Client) Delete(ctx context.Context, t entity.Type, opts ...RequestOption) ([]*entity.Entity, error) {
	return c.entities(ctx, routes.Delete, t, opts)
}

// Count returns the remote number of records of a type.
func (c *Client) Count(ctx context.Context, t entity.Type, opts ...RequestOption) (int, error) {
	env, _, err := c.call(ctx, routes.Count, t, opts)
	if err != nil {
		return 0, err
	}
	raw, ok := env["count"]
	if !ok {
		return 0, fmt.Errorf("%w: count of %s has no 'count' key", ErrMalformedEnvelope, t)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: count of %s: %v", ErrMalformedEnvelope, t, err)
	}
	return n, nil
}

func (c *Client) entities(ctx context.Context, m routes.Method, t entity.Type, opts []RequestOption) ([]*entity.Entity, error) {
	env, r, err := c.call(ctx, m, t, opts)
	if err != nil {
		return nil, err
	}
	if m == routes.Delete && len(env) == 0 {
		return nil, nil
	}

	items, err := unwrap(env, t, r)
	if err != nil {
		return nil, err
	}
	out, err := c.mapper.BuildAll(t, items)
	if err != nil {
		return nil, fmt.Errorf("convert %s response: %w", t, err)
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, m routes.Method, t entity.Type, opts []RequestOption) (map[string]json.RawMessage, routes.ItemRoutes, error) {
	verb, err := routes.Verb(m)
	if err != nil {
		return nil, routes.ItemRoutes{}, err
	}
	r, ok := routes.Lookup(t)
	if !ok {
		return nil, r, fmt.Errorf("%w: refusing to fulfill %s request, no routes available for type '%s'", ErrNoRoute, verb, t)
	}
	tpl, ok := routes.Resolve(t, m)
	if !ok {
		return nil, r, fmt.Errorf("%w: refusing to fulfill %s request, method %s not allowed for type '%s'", ErrNoRoute, verb, m, t)
	}

	req := newRequest(opts)
	vars := map[string]string{"prefix": r.Prefix}
	for k, v := range req.vars {
		vars[k] = v
	}
	endpoint := routes.Format(tpl, vars)

	var body interface{}
	if m == routes.Create || m == routes.Update {
		if req.body == nil {
			return nil, r, fmt.Errorf("%w: %s %s", ErrMissingEntity, m, t)
		}
		wire, err := transform.ToWire(req.body)
		if err != nil {
			return nil, r, fmt.Errorf("encode %s: %w", req.body, err)
		}
		body = map[string]interface{}{r.Singular: wire}
	}

	ctx = middleware.WithRoute(ctx, routes.Format(tpl, map[string]string{"prefix": r.Prefix}))
	ctx = withHeaders(ctx, req.headers)

	var env map[string]json.RawMessage
	if err := c.do(ctx, verb, endpoint, body, &env); err != nil {
		return nil, r, err
	}
	return env, r, nil
}

// unwrap finds the collection or singular key and always returns a list.
func unwrap(env map[string]json.RawMessage, t entity.Type, r routes.ItemRoutes) ([]json.RawMessage, error) {
	var raw json.RawMessage
	found := false
	for _, key := range []string{string(t), r.Prefix, r.Singular} {
		if raw, found = env[key]; found {
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no '%s' key in %s response", ErrMalformedEnvelope, r.Prefix, t)
	}

	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return items, nil
	case trimmed[0] == '{':
		return []json.RawMessage{trimmed}, nil
	}
	return nil, fmt.Errorf("%w: '%s' is neither an object nor an array", ErrMalformedEnvelope, r.Prefix)
}

type headersKey struct{}

func withHeaders(ctx context.Context, h http.Header) context.Context {
	if len(h) == 0 {
		return ctx
	}
	return context.WithValue(ctx, headersKey{}, h)
}

func headersFrom(ctx context.Context) http.Header {
	h, _ := ctx.Value(headersKey{}).(http.Header)
	return h
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, requestBody interface{}, response interface{}) error {
	var reader io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}
	for k, vs := range headersFrom(ctx) {
		req.Header[k] = vs
	}
	c.auth.SetApiKey(req)

	resp, err := c.http.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.log.Warn("store rejected API key %s: %s", maskKey(c.auth.GetApiKey()), resp.Status)
		}
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
