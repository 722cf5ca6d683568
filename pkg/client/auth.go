package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// HeaderAuthorization carries the credential.
	HeaderAuthorization = "Authorization"
	// HeaderAccount scopes a request to one SavvyCal account.
	HeaderAccount = "X-SavvyCal-Account"
)

// DefaultUnprotectedPrefixes lists path prefixes that never carry credentials.
var DefaultUnprotectedPrefixes = []string{"/v1/public"}

type authStrategy int

const (
	strategyToken authStrategy = iota
	strategyAPIKey
	strategyDemo
)

func (s authStrategy) String() string {
	switch s {
	case strategyAPIKey:
		return "api_key"
	case strategyDemo:
		return "demo"
	default:
		return "token"
	}
}

// authenticator decides, per request, which credential to attach.
type authenticator struct {
	strategy     authStrategy
	apiKey       string
	demo         string
	account      string
	fetch        TokenFunc
	unprotected  []string
	singleFlight bool
	now          func() time.Time
	log          *zap.SugaredLogger

	cache tokenCache
	group singleflight.Group
}

func newAuthenticator(opts Options, log *zap.SugaredLogger) (*authenticator, error) {
	demo := opts.Demo
	if demo == "" {
		demo = opts.DemoAlias
	} else if opts.DemoAlias != "" && opts.DemoAlias != demo {
		return nil, ErrConflictingAuth
	}
	set := 0
	a := &authenticator{
		account:      opts.Account,
		fetch:        opts.FetchAccessToken,
		unprotected:  opts.UnprotectedPrefixes,
		singleFlight: opts.SingleFlight,
		now:          opts.Clock,
		log:          log,
	}
	if opts.APIKey != "" {
		set++
		a.strategy = strategyAPIKey
		a.apiKey = opts.APIKey
	}
	if demo != "" {
		set++
		a.strategy = strategyDemo
		a.demo = demo
	}
	if opts.FetchAccessToken != nil {
		set++
		a.strategy = strategyToken
	}
	if set > 1 {
		return nil, ErrConflictingAuth
	}
	if a.unprotected == nil {
		a.unprotected = DefaultUnprotectedPrefixes
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a, nil
}

func (a *authenticator) middleware() Middleware {
	return Middleware{Name: "auth", OnRequest: a.onRequest}
}

// isUnprotected matches against the templated path only, so substituted
// parameter values can't change the outcome.
func (a *authenticator) isUnprotected(schemaPath string) bool {
	for _, p := range a.unprotected {
		if strings.HasPrefix(schemaPath, p) {
			return true
		}
	}
	return false
}

func (a *authenticator) onRequest(req *http.Request, info RequestInfo) error {
	if a.account != "" {
		req.Header.Set(HeaderAccount, a.account)
	}
	if a.isUnprotected(info.SchemaPath) {
		return nil
	}
	switch a.strategy {
	case strategyDemo:
		req.Header.Set(HeaderAuthorization, "Demo "+a.demo)
	case strategyAPIKey:
		req.Header.Set(HeaderAuthorization, "Bearer "+a.apiKey)
	default:
		tok, err := a.token(req.Context())
		if err != nil {
			return err
		}
		req.Header.Set(HeaderAuthorization, "Bearer "+tok)
	}
	return nil
}

// token returns the cached token or refreshes it.
func (a *authenticator) token(ctx context.Context) (string, error) {
	if a.fetch == nil {
		return "", configurationError(ErrNoFetchAccessToken)
	}
	if tok, ok := a.cache.reusable(a.now()); ok {
		return tok, nil
	}
	if !a.singleFlight {
		return a.refresh(ctx)
	}
	// The shared refresh is detached from any one caller's cancellation.
	ch := a.group.DoChan("token", func() (any, error) {
		return a.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			a.log.Debugw("joined in-flight token refresh")
		}
		return res.Val.(string), nil
	}
}

func (a *authenticator) refresh(ctx context.Context) (string, error) {
	tok, err := a.fetch(ctx)
	if err != nil {
		tokenRefreshes.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		tokenRefreshes.WithLabelValues("empty").Inc()
		return "", credentialError(ErrNoAccessToken)
	}
	if !validTokenShape(tok) {
		tokenRefreshes.WithLabelValues("invalid").Inc()
		return "", credentialError(ErrInvalidAccessToken)
	}
	a.cache.set(tok)
	tokenRefreshes.WithLabelValues("ok").Inc()
	a.log.Debugw("access token refreshed", "expired", tokenExpired(tok, a.now()))
	return tok, nil
}
