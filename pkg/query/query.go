// Package query caches API responses by request key.
//
// A cached value younger than the stale time is returned without a network
// call. Concurrent fetches of one key share a single call, failed fetches are
// retried with exponential backoff, and mutations invalidate cached keys by
// prefix.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"savvycal/pkg/client"
)

// ErrDisabled is returned by Fetch when the query is disabled.
var ErrDisabled = errors.New("query: disabled")

const (
	DefaultCacheTime = 5 * time.Minute
	DefaultRetries   = 3
	// NoRetries in Options.Retries makes one attempt only.
	NoRetries = -1
)

// RetryLimit maps an exact retry count, where 0 means no retries, onto
// Options.Retries.
func RetryLimit(n int) int {
	if n <= 0 {
		return NoRetries
	}
	return n
}

// Options configures a Cache.
type Options struct {
	// StaleTime is how long a value is served without refetching. Zero
	// refetches on every call and only de-duplicates concurrent ones.
	StaleTime time.Duration
	// CacheTime is how long an entry is kept in the store. Defaults to
	// DefaultCacheTime.
	CacheTime time.Duration
	// Retries after the first failed attempt. 0 means DefaultRetries;
	// NoRetries (or any negative value) disables retries. Use RetryLimit
	// for counts where 0 means none.
	Retries int
	// Backoff returns the retry schedule. Defaults to exponential backoff
	// starting at one second and capped at 30 seconds.
	Backoff func() backoff.BackOff

	Logger *zap.SugaredLogger
	Clock  func() time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	store     Store
	staleTime time.Duration
	cacheTime time.Duration
	retries   int
	backoff   func() backoff.BackOff
	log       *zap.SugaredLogger
	now       func() time.Time
	group     singleflight.Group
}

// New returns a Cache over store. A nil store uses a MemoryStore.
func New(store Store, opts Options) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		store:     store,
		staleTime: opts.StaleTime,
		cacheTime: opts.CacheTime,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
		log:       opts.Logger,
		now:       opts.Clock,
	}
	if c.cacheTime <= 0 {
		c.cacheTime = DefaultCacheTime
	}
	if c.retries == 0 {
		c.retries = DefaultRetries
	}
	if c.retries < 0 {
		c.retries = 0
	}
	if c.backoff == nil {
		c.backoff = defaultBackoff
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func defaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

type fetchConfig struct {
	enabled   bool
	staleTime time.Duration
}

// FetchOption adjusts a single Fetch call.
type FetchOption func(*fetchConfig)

// Enabled(false) makes Fetch return ErrDisabled without touching the store.
func Enabled(on bool) FetchOption { return func(f *fetchConfig) { f.enabled = on } }

// StaleTime overrides the cache's stale time for one call.
func StaleTime(d time.Duration) FetchOption {
	return func(f *fetchConfig) { f.staleTime = d }
}

type shared struct {
	val any
	raw json.RawMessage
}

// Fetch returns the value cached under key or calls fetch to produce it.
// Values round-trip through JSON when read from the store.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), opts ...FetchOption) (T, error) {
	var zero T
	cfg := fetchConfig{enabled: true, staleTime: c.staleTime}
	for _, o := range opts {
		o(&cfg)
	}
	if !cfg.enabled {
		return zero, ErrDisabled
	}
	ks := key.String()

	if e, ok, err := c.store.Get(ctx, ks); err != nil {
		c.log.Warnw("query cache read failed", "key", ks, "err", err)
	} else if ok {
		if c.now().Sub(e.FetchedAt) < cfg.staleTime {
			var out T
			if err := json.Unmarshal(e.Value, &out); err == nil {
				lookups.WithLabelValues("hit").Inc()
				return out, nil
			}
		}
		lookups.WithLabelValues("stale").Inc()
	} else {
		lookups.WithLabelValues("miss").Inc()
	}

	// The shared fetch ignores cancellation; each caller waits on its own
	// context.
	ch := c.group.DoChan(ks, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		val, err := c.retry(ctx, func(ctx context.Context) (any, error) { return fetch(ctx) })
		if err != nil {
			fetchErrors.Inc()
			return nil, err
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("query: encode %s: %w", ks, err)
		}
		if err := c.store.Set(ctx, ks, Entry{Value: raw, FetchedAt: c.now()}, c.cacheTime); err != nil {
			c.log.Warnw("query cache write failed", "key", ks, "err", err)
		}
		return shared{val: val, raw: raw}, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	s := res.Val.(shared)
	if out, ok := s.val.(T); ok {
		return out, nil
	}
	var out T
	if err := json.Unmarshal(s.raw, &out); err != nil {
		return zero, fmt.Errorf("query: decode %s: %w", ks, err)
	}
	return out, nil
}

func (c *Cache) retry(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	var out any
	attempt := 0
	op := func() error {
		attempt++
		v, err := fn(ctx)
		if err == nil {
			out = v
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		c.log.Debugw("query fetch failed", "attempt", attempt, "err", err)
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), uint64(c.retries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return out, nil
}

// Retryable reports whether a failed fetch is worth repeating. Credential
// problems, client errors and cancellation are not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrDisabled) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if client.IsAuthError(err) {
		return false
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	return true
}

// Invalidate drops every cached key that starts with prefix.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	invalidations.Inc()
	return c.store.DeletePrefix(ctx, prefix.prefix())
}

// Mutate runs fn once and, on success, invalidates each prefix. Invalidation
// failures are logged; the mutation result is still returned.
func Mutate[T any](ctx context.Context, c *Cache, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	out, err := fn(ctx)
	if err != nil {
		return out, err
	}
	for _, k := range invalidate {
		if err := c.Invalidate(ctx, k); err != nil {
			c.log.Warnw("query invalidation failed", "prefix", k.String(), "err", err)
		}
	}
	return out, nil
}
