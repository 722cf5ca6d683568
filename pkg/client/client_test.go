package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "default", baseURL: "", want: "https://api.savvycal.app/v1/account"},
		{name: "custom", baseURL: "https://custom.api.com", want: "https://custom.api.com/v1/account"},
		{name: "trailing slash", baseURL: "https://custom.api.com/", want: "https://custom.api.com/v1/account"},
		{name: "with prefix", baseURL: "http://localhost:4000/api", want: "http://localhost:4000/api/v1/account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := newRecordingDoer(`{}`)
			c, err := New(Options{BaseURL: tt.baseURL, HTTPClient: doer, APIKey: "k"})
			require.NoError(t, err)

			_, err = c.GET(context.Background(), "/v1/account", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doer.request(t, 0).URL.String())
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	fetch := func(context.Context) (string, error) { return "", nil }
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{name: "api key and demo", opts: Options{APIKey: "k", Demo: "d"}, want: ErrConflictingAuth},
		{name: "api key and callback", opts: Options{APIKey: "k", FetchAccessToken: fetch}, want: ErrConflictingAuth},
		{name: "demo and callback", opts: Options{DemoAlias: "d", FetchAccessToken: fetch}, want: ErrConflictingAuth},
		{name: "demo and different alias", opts: Options{Demo: "a", DemoAlias: "b"}, want: ErrConflictingAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "https://"})
	assert.Error(t, err)
}

func TestRequest_PathAndQueryParams(t *testing.T) {
	doer := newRecordingDoer(`{"data":[]}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/public/services/{service_id}/slots", &RequestOptions{
		Params: Params{
			Path:  map[string]string{"service_id": "srv 123"},
			Query: map[string]any{"until": "2025-01-31", "from": "2025-01-01", "empty": ""},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"https://api.savvycal.app/v1/public/services/srv%20123/slots?from=2025-01-01&until=2025-01-31",
		doer.request(t, 0).URL.String())
}

func TestRequest_MissingPathParam(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/services/{service_id}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_id")
	assert.Equal(t, 0, doer.calls())
}

func TestRequest_JSONBody(t *testing.T) {
	doer := newRecordingDoer(`{"data":{"id":"appt_1"}}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "k"})
	require.NoError(t, err)

	resp, err := c.POST(context.Background(), "/v1/appointments", &RequestOptions{
		Body: map[string]string{"service_id": "srv_1"},
	})
	require.NoError(t, err)
	req := doer.request(t, 0)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	assert.Equal(t, "srv_1", body["service_id"])

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "appt_1", out.Data.ID)
}

func TestAuth_UnprotectedPaths(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tokens := newCountingTokens(jwtExpiringIn(t, time.Hour))
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/public/services/{service_id}/slots", &RequestOptions{
		Params: Params{
			Path:  map[string]string{"service_id": "123"},
			Query: map[string]any{"from": "2025-01-01", "until": "2025-01-31"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, tokens.calls())
	assert.Empty(t, doer.request(t, 0).Header.Get(HeaderAuthorization))
}

func TestAuth_UnprotectedMatchesSchemaPathOnly(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "secret"})
	require.NoError(t, err)

	// The substituted value looks public, the template does not.
	_, err = c.GET(context.Background(), "/v1/{scope}/services", &RequestOptions{
		Params: Params{Path: map[string]string{"scope": "public"}},
	})
	require.NoError(t, err)
	req := doer.request(t, 0)
	assert.Equal(t, "/v1/public/services", req.URL.Path)
	assert.Equal(t, "Bearer secret", req.Header.Get(HeaderAuthorization))
}

func TestAuth_CustomUnprotectedPrefixes(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "secret", UnprotectedPrefixes: []string{"/v1/platform"}})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/platform", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/public/services/{service_id}/slots", &RequestOptions{
		Params: Params{Path: map[string]string{"service_id": "1"}},
	})
	require.NoError(t, err)

	assert.Empty(t, doer.request(t, 0).Header.Get(HeaderAuthorization))
	assert.Equal(t, "Bearer secret", doer.request(t, 1).Header.Get(HeaderAuthorization))
}

func TestAuth_Demo(t *testing.T) {
	for _, opts := range []Options{{Demo: "demo-token-123"}, {DemoAlias: "demo-token-123"}} {
		doer := newRecordingDoer(`{}`)
		opts.HTTPClient = doer
		c, err := New(opts)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			_, err = c.GET(context.Background(), "/v1/account", nil)
			require.NoError(t, err)
			assert.Equal(t, "Demo demo-token-123", doer.request(t, i).Header.Get(HeaderAuthorization))
		}
	}
}

func TestAuth_APIKey(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer, APIKey: "sk_live_abc"})
	require.NoError(t, err)

	_, err = c.DELETE(context.Background(), "/v1/blocks/{block_id}", &RequestOptions{
		Params: Params{Path: map[string]string{"block_id": "blk_1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_live_abc", doer.request(t, 0).Header.Get(HeaderAuthorization))
}

func TestAuth_BearerFromCallback(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tok := jwtExpiringIn(t, time.Hour)
	tokens := newCountingTokens(tok)
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tokens.calls())
	assert.Equal(t, "Bearer "+tok, doer.request(t, 0).Header.Get(HeaderAuthorization))
}

func TestAuth_AcceptsNonStringRegisteredClaims(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tok := mockJWT(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix(), "sub": 123, "aud": 5})
	tokens := newCountingTokens(tok)
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = c.GET(context.Background(), "/v1/account", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer "+tok, doer.request(t, i).Header.Get(HeaderAuthorization))
	}
	assert.Equal(t, 1, tokens.calls())
}

func TestAuth_CachesValidToken(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tok := jwtExpiringIn(t, time.Hour)
	tokens := newCountingTokens(tok)
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = c.GET(context.Background(), "/v1/account", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer "+tok, doer.request(t, i).Header.Get(HeaderAuthorization))
	}
	assert.Equal(t, 1, tokens.calls())
}

func TestAuth_RefreshesExpiredToken(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	expired := jwtExpiringIn(t, -time.Hour)
	fresh := jwtExpiringIn(t, time.Hour)
	tokens := newCountingTokens(expired, fresh)
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, tokens.calls())
	assert.Equal(t, "Bearer "+expired, doer.request(t, 0).Header.Get(HeaderAuthorization))
	assert.Equal(t, "Bearer "+fresh, doer.request(t, 1).Header.Get(HeaderAuthorization))
}

func TestAuth_RefreshesWhenClockPassesExp(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	now := time.Now()
	first := mockJWT(t, map[string]any{"exp": now.Add(time.Minute).Unix()})
	second := mockJWT(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
	tokens := newCountingTokens(first, second)
	var clock atomic.Int64
	clock.Store(now.Unix())
	c, err := New(Options{
		HTTPClient:       doer,
		FetchAccessToken: tokens.fetch,
		Clock:            func() time.Time { return time.Unix(clock.Load(), 0) },
	})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tokens.calls())

	// exp == now counts as expired
	clock.Store(now.Add(time.Minute).Unix())
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tokens.calls())
	assert.Equal(t, "Bearer "+second, doer.request(t, 2).Header.Get(HeaderAuthorization))
}

func TestAuth_TokenWithoutExpNeverRefreshes(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tokens := newCountingTokens(mockJWT(t, map[string]any{"sub": "user-123"}))
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err = c.GET(context.Background(), "/v1/account", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokens.calls())
}

func TestAuth_MalformedTokenRejectedThenRefreshed(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	fresh := jwtExpiringIn(t, time.Hour)
	tokens := newCountingTokens("not-a-valid-jwt", fresh)
	c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.ErrorIs(t, err, ErrInvalidAccessToken)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, KindCredential, authErr.Kind)
	assert.Equal(t, 0, doer.calls(), "no request is sent when auth fails")

	// The caller retries; the callback runs again and the good token sticks.
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tokens.calls())
	assert.Equal(t, "Bearer "+fresh, doer.request(t, 1).Header.Get(HeaderAuthorization))
}

func TestAuth_NoFetchAccessToken(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.ErrorIs(t, err, ErrNoFetchAccessToken)
	assert.Contains(t, err.Error(), "no fetchAccessToken provided")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, KindConfiguration, authErr.Kind)
	assert.Equal(t, 0, doer.calls())

	// Public paths still work without any credential.
	_, err = c.GET(context.Background(), "/v1/public/services/{service_id}/earliest_slot", &RequestOptions{
		Params: Params{Path: map[string]string{"service_id": "srv_1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doer.calls())
}

func TestAuth_EmptyToken(t *testing.T) {
	for _, value := range []string{"", "   "} {
		doer := newRecordingDoer(`{}`)
		tokens := newCountingTokens(value)
		c, err := New(Options{HTTPClient: doer, FetchAccessToken: tokens.fetch})
		require.NoError(t, err)

		_, err = c.GET(context.Background(), "/v1/account", nil)
		require.ErrorIs(t, err, ErrNoAccessToken)
		assert.True(t, IsAuthError(err))
		assert.Equal(t, 0, doer.calls())
	}
}

func TestAuth_CallbackErrorPropagates(t *testing.T) {
	signIn := errors.New("session expired")
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{
		HTTPClient:       doer,
		FetchAccessToken: func(context.Context) (string, error) { return "", signIn },
	})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.ErrorIs(t, err, signIn)
	assert.Equal(t, 0, doer.calls())
}

func TestAuth_CallbackReceivesRequestContext(t *testing.T) {
	type key struct{}
	doer := newRecordingDoer(`{}`)
	var seen any
	c, err := New(Options{
		HTTPClient: doer,
		FetchAccessToken: func(ctx context.Context) (string, error) {
			seen = ctx.Value(key{})
			return jwtExpiringIn(t, time.Hour), nil
		},
	})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), key{}, "caller")
	_, err = c.GET(ctx, "/v1/account", nil)
	require.NoError(t, err)
	assert.Equal(t, "caller", seen)
}

func TestAuth_SingleFlightSharesRefresh(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tok := jwtExpiringIn(t, time.Hour)
	var calls atomic.Int32
	release := make(chan struct{})
	c, err := New(Options{
		HTTPClient:   doer,
		SingleFlight: true,
		FetchAccessToken: func(context.Context) (string, error) {
			calls.Add(1)
			<-release
			return tok, nil
		},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GET(context.Background(), "/v1/account", nil)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 8, doer.calls())
}

func TestAuth_SingleFlightIgnoresOtherCallersCancel(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	tok := jwtExpiringIn(t, time.Hour)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	c, err := New(Options{
		HTTPClient:   doer,
		SingleFlight: true,
		FetchAccessToken: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			select {
			case <-release:
				return tok, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	})
	require.NoError(t, err)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GET(firstCtx, "/v1/account", nil)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := c.GET(context.Background(), "/v1/account", nil)
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	select {
	case err := <-secondErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("joined request did not complete")
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, doer.calls())
	assert.Equal(t, "Bearer "+tok, doer.request(t, 0).Header.Get(HeaderAuthorization))
}

func TestAccountHeader(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{HTTPClient: doer, Account: "account-123", Demo: "d"})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/public/services/{service_id}/slots", &RequestOptions{
		Params: Params{Path: map[string]string{"service_id": "1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "account-123", doer.request(t, 0).Header.Get(HeaderAccount))
	assert.Equal(t, "account-123", doer.request(t, 1).Header.Get(HeaderAccount))
	assert.Empty(t, doer.request(t, 1).Header.Get(HeaderAuthorization))

	doer = newRecordingDoer(`{}`)
	c, err = New(Options{HTTPClient: doer, Demo: "d"})
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	assert.Empty(t, doer.request(t, 0).Header.Values(HeaderAccount))
}

func TestTransportErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	doer := newRecordingDoer(`{}`)
	doer.err = boom
	c, err := New(Options{HTTPClient: doer, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	assert.Same(t, boom, err)
	assert.False(t, IsAuthError(err))
}

func TestNon2xxIsDecodedNotReturned(t *testing.T) {
	doer := newRecordingDoer(`{"errors":{"detail":"Not Found"}}`)
	doer.status = http.StatusNotFound
	c, err := New(Options{HTTPClient: doer, APIKey: "k"})
	require.NoError(t, err)

	resp, err := c.GET(context.Background(), "/v1/appointments/{appointment_id}", &RequestOptions{
		Params: Params{Path: map[string]string{"appointment_id": "missing"}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.Error.Status)
	assert.Equal(t, "Not Found", resp.Error.Message)

	var out map[string]any
	var apiErr *APIError
	require.ErrorAs(t, resp.Decode(&out), &apiErr)
}

func TestMiddlewareOrderAndAbort(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	var order []string
	stop := errors.New("stop")
	c, err := New(Options{
		HTTPClient: doer,
		APIKey:     "k",
		Middleware: []Middleware{
			{Name: "first", OnRequest: func(req *http.Request, info RequestInfo) error {
				order = append(order, "first:"+req.Header.Get(HeaderAuthorization))
				assert.Equal(t, "/v1/blocks/{block_id}", info.SchemaPath)
				assert.Equal(t, "/v1/blocks/{block_id}", SchemaPathFrom(req.Context()))
				return nil
			}},
			{Name: "second", OnRequest: func(req *http.Request, info RequestInfo) error {
				order = append(order, "second")
				if info.Params.Path["block_id"] == "forbidden" {
					return stop
				}
				return nil
			}},
			{Name: "response", OnResponse: func(resp *http.Response, _ RequestInfo) error {
				order = append(order, "response")
				return nil
			}},
		},
	})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/blocks/{block_id}", &RequestOptions{
		Params: Params{Path: map[string]string{"block_id": "ok"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:Bearer k", "second", "response"}, order)

	_, err = c.GET(context.Background(), "/v1/blocks/{block_id}", &RequestOptions{
		Params: Params{Path: map[string]string{"block_id": "forbidden"}},
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, doer.calls())
}

func TestRequestIDMiddleware(t *testing.T) {
	doer := newRecordingDoer(`{}`)
	c, err := New(Options{
		HTTPClient: doer,
		APIKey:     "k",
		Middleware: []Middleware{RequestID(nil)},
	})
	require.NoError(t, err)

	_, err = c.GET(context.Background(), "/v1/account", nil)
	require.NoError(t, err)
	_, err = c.GET(context.Background(), "/v1/account", &RequestOptions{Header: http.Header{HeaderRequestID: []string{"fixed"}}})
	require.NoError(t, err)

	assert.Len(t, doer.request(t, 0).Header.Get(HeaderRequestID), 36)
	assert.Equal(t, "fixed", doer.request(t, 1).Header.Get(HeaderRequestID))
}

func TestIdempotentReadsAgainstServer(t *testing.T) {
	tok := jwtExpiringIn(t, time.Hour)
	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/v1/services/{service_id}", func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		if req.Header.Get(HeaderAuthorization) != "Bearer "+tok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": chi.URLParam(req, "service_id"), "hit": hits.Load()},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	tokens := newCountingTokens(tok)
	c, err := New(Options{BaseURL: srv.URL, HTTPClient: srv.Client(), FetchAccessToken: tokens.fetch})
	require.NoError(t, err)

	type envelope struct {
		Data struct {
			ID  string `json:"id"`
			Hit int    `json:"hit"`
		} `json:"data"`
	}
	opts := &RequestOptions{Params: Params{Path: map[string]string{"service_id": "srv_1"}}}
	first, err := Call[envelope](context.Background(), c, http.MethodGet, "/v1/services/{service_id}", opts)
	require.NoError(t, err)
	second, err := Call[envelope](context.Background(), c, http.MethodGet, "/v1/services/{service_id}", opts)
	require.NoError(t, err)

	assert.Equal(t, "srv_1", first.Data.ID)
	assert.Equal(t, 1, first.Data.Hit)
	assert.Equal(t, 2, second.Data.Hit)
	assert.Equal(t, 1, tokens.calls())
}
