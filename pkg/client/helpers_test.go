package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingDoer stands in for the network: it records every request and
// answers with a canned response.
type recordingDoer struct {
	mu     sync.Mutex
	reqs   []*http.Request
	status int
	body   string
	err    error
}

func newRecordingDoer(body string) *recordingDoer {
	return &recordingDoer{status: http.StatusOK, body: body}
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.reqs = append(d.reqs, req)
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Status:     http.StatusText(d.status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Request:    req,
	}, nil
}

func (d *recordingDoer) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reqs)
}

func (d *recordingDoer) request(t *testing.T, i int) *http.Request {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= len(d.reqs) {
		t.Fatalf("expected at least %d requests, got %d", i+1, len(d.reqs))
	}
	return d.reqs[i]
}

// mockJWT builds an unsigned token with the given claims.
func mockJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]any{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatal(err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".mock-signature"
}

func jwtExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return mockJWT(t, map[string]any{"exp": time.Now().Add(d).Unix(), "sub": "user-123"})
}

// countingTokens hands out tokens in order, repeating the last one.
type countingTokens struct {
	mu     sync.Mutex
	tokens []string
	n      int
}

func newCountingTokens(tokens ...string) *countingTokens {
	return &countingTokens{tokens: tokens}
}

func (c *countingTokens) fetch(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.n
	c.n++
	if len(c.tokens) == 0 {
		return "", nil
	}
	if i >= len(c.tokens) {
		i = len(c.tokens) - 1
	}
	return c.tokens[i], nil
}

func (c *countingTokens) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
