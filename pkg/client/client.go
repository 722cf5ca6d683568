// Package client is an HTTP client for the SavvyCal Appointments API that
// attaches the right credential to every request.
//
// Three mutually exclusive auth strategies are supported:
//
//   - APIKey: a static secret sent as "Authorization: Bearer <key>".
//   - Demo: a static demo credential sent as "Authorization: Demo <value>".
//   - FetchAccessToken: a callback returning a JWT on demand. The last token is
//     cached and the callback is consulted again only once the token's exp
//     claim has passed.
//
// Paths under /v1/public never carry an Authorization header. When Account is
// set every request, public or not, carries X-SavvyCal-Account.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production API origin.
const DefaultBaseURL = "https://api.savvycal.app"

const defaultUserAgent = "savvycal-go/0.1"

// TokenFunc returns a bearer token. It may block (e.g. call an auth server);
// ctx is the context of the request that needs the token.
type TokenFunc func(ctx context.Context) (string, error)

// HTTPDoer performs the network round trip. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. It is read once by New.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Account scopes every request via the X-SavvyCal-Account header.
	Account string

	// At most one of APIKey, Demo (or its alias DemoAlias) and FetchAccessToken.
	APIKey           string
	Demo             string
	DemoAlias        string
	FetchAccessToken TokenFunc

	// HTTPClient replaces the network function. Defaults to a *http.Client
	// with a 30 second timeout.
	HTTPClient HTTPDoer
	// Headers are added to every request before middleware runs.
	Headers http.Header
	// Middleware runs after the auth middleware, in order.
	Middleware []Middleware
	// UnprotectedPrefixes overrides DefaultUnprotectedPrefixes.
	UnprotectedPrefixes []string
	UserAgent           string
	// SingleFlight makes concurrent callers share one in-flight token refresh.
	SingleFlight bool

	Logger *zap.SugaredLogger
	Clock  func() time.Time
}

// Client sends requests to the SavvyCal API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	headers    http.Header
	userAgent  string
	auth       *authenticator
	middleware []Middleware
	log        *zap.SugaredLogger
}

// New validates opts and returns a ready Client. The token cache starts empty.
func New(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	auth, err := newAuthenticator(opts, log)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	mws := append([]Middleware{auth.middleware()}, opts.Middleware...)
	return &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		headers:    opts.Headers.Clone(),
		userAgent:  ua,
		auth:       auth,
		middleware: mws,
		log:        log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("savvycal: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("savvycal: base URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("savvycal: base URL missing host")
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// BaseURL returns the normalized API origin.
func (c *Client) BaseURL() string { return c.baseURL }

// Params holds path and query parameters for one request.
type Params struct {
	Path  map[string]string
	Query map[string]any
}

// RequestOptions mirrors the { params, body } init object of the typed
// bindings. Body is JSON encoded unless it is an io.Reader.
type RequestOptions struct {
	Params Params
	Body   any
	Header http.Header
}

// GET sends a GET request for the templated path.
func (c *Client) GET(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts)
}

// POST sends a POST request for the templated path.
func (c *Client) POST(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts)
}

// PUT sends a PUT request for the templated path.
func (c *Client) PUT(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts)
}

// PATCH sends a PATCH request for the templated path.
func (c *Client) PATCH(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, opts)
}

// DELETE sends a DELETE request for the templated path.
func (c *Client) DELETE(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts)
}

// Do builds the request, runs the middleware chain and sends it.
//
// A non-2xx status is not an error: it is decoded into Response.Error.
// Errors from middleware (including *AuthError) abort the call before the
// transport is used; errors from the transport are returned unchanged.
func (c *Client) Do(ctx context.Context, method, path string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	info := RequestInfo{Method: method, SchemaPath: path, Params: opts.Params}
	req, err := c.newRequest(WithSchemaPath(ctx, path), method, path, opts)
	if err != nil {
		return nil, err
	}
	for _, mw := range c.middleware {
		if mw.OnRequest == nil {
			continue
		}
		if err := mw.OnRequest(req, info); err != nil {
			c.log.Debugw("request aborted by middleware", "middleware", mw.Name, "method", method, "path", path, "err", err)
			return nil, err
		}
	}

	c.log.Debugw("savvycal request", "method", method, "url", req.URL.String())
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, path, "error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues(method, path, statusClass(resp.StatusCode)).Inc()

	for _, mw := range c.middleware {
		if mw.OnResponse == nil {
			continue
		}
		if err := mw.OnResponse(resp, info); err != nil {
			_ = resp.Body.Close()
			return nil, err
		}
	}
	return readResponse(resp)
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts *RequestOptions) (*http.Request, error) {
	target, err := c.resolveURL(path, opts.Params)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	isJSON := false
	switch b := opts.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("savvycal: encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
		isJSON = true
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range opts.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if isJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// resolveURL substitutes {name} segments and appends the encoded query.
func (c *Client) resolveURL(path string, params Params) (string, error) {
	resolved, err := ExpandPath(path, params.Path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(resolved, "/") {
		resolved = "/" + resolved
	}
	target := c.baseURL + resolved
	if q := encodeQuery(params.Query); q != "" {
		target += "?" + q
	}
	return target, nil
}

// ExpandPath replaces every {name} in path with the escaped value from vals.
func ExpandPath(path string, vals map[string]string) (string, error) {
	var b strings.Builder
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("savvycal: unterminated parameter in path %q", path)
		}
		name := rest[open+1 : open+end]
		v, ok := vals[name]
		if !ok || v == "" {
			return "", fmt.Errorf("savvycal: missing path parameter %q for %s", name, path)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(v))
		rest = rest[open+end+1:]
	}
}

// encodeQuery uses form style with exploded arrays and sorted keys.
func encodeQuery(q map[string]any) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := url.Values{}
	for _, k := range keys {
		switch v := q[k].(type) {
		case nil:
		case string:
			if v != "" {
				vals.Add(k, v)
			}
		case *string:
			if v != nil && *v != "" {
				vals.Add(k, *v)
			}
		case []string:
			for _, s := range v {
				vals.Add(k, s)
			}
		case []any:
			for _, s := range v {
				vals.Add(k, fmt.Sprint(s))
			}
		case time.Time:
			vals.Add(k, v.Format(time.RFC3339))
		case fmt.Stringer:
			vals.Add(k, v.String())
		default:
			vals.Add(k, fmt.Sprint(v))
		}
	}
	return vals.Encode()
}
