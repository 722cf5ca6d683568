// pkg/db/db.go
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"savvycal/pkg/config"
)

// MustRedis connects to REDIS_URL, or returns nil when it is unset so the
// caller falls back to in-process caching.
func MustRedis(cfg config.Config, log *zap.SugaredLogger) *redis.Client {
	cli, err := Redis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalw("redis connect", "url", redactURL(cfg.RedisURL), "err", err)
	}
	if cli != nil {
		log.Infow("redis ready", "addr", cli.Options().Addr)
	}
	return cli
}

// Redis parses url and pings the server. An empty url yields (nil, nil).
func Redis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

func redactURL(u string) string {
	if i := strings.Index(u, "@"); i > 0 {
		if j := strings.Index(u, "://"); j > 0 && j < i {
			return u[:j+3] + "***@" + u[i+1:]
		}
		return "***@" + u[i+1:]
	}
	return u
}
