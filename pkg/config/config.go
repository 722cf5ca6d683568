// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	// SavvyCal API
	BaseURL        string
	APIKey         string
	Demo           string
	Account        string
	AccessTokenCmd string // shell command printing a JWT (dynamic-token strategy)
	HTTPTimeout    time.Duration

	// Booking demo
	ServiceID   string
	BookingAddr string
	PublicURL   string

	// Query cache
	RedisURL   string
	StaleTime  time.Duration
	CacheTime  time.Duration
	// MaxRetries is exact: 0 disables retries.
	MaxRetries int
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:            env("SAVVYCAL_ENV", "dev"),
		LogLevel:       env("SAVVYCAL_LOG_LEVEL", ""),
		BaseURL:        env("SAVVYCAL_BASE_URL", "https://api.savvycal.app"),
		APIKey:         env("SAVVYCAL_API_KEY", ""),
		Demo:           env("SAVVYCAL_DEMO", ""),
		Account:        env("SAVVYCAL_ACCOUNT", ""),
		AccessTokenCmd: env("SAVVYCAL_ACCESS_TOKEN_CMD", ""),
		HTTPTimeout:    envDur("HTTP_TIMEOUT_SEC", 30) * time.Second,
		ServiceID:      env("SAVVYCAL_SERVICE_ID", ""),
		BookingAddr:    env("BOOKING_ADDR", ":8080"),
		PublicURL:      env("BASE_PUBLIC_URL", "http://localhost:8080"),
		RedisURL:       env("REDIS_URL", ""),
		StaleTime:      envDur("QUERY_STALE_SEC", 60) * time.Second,
		CacheTime:      envDur("QUERY_CACHE_SEC", 300) * time.Second,
		MaxRetries:     envInt("QUERY_MAX_RETRIES", 3),
	}
	if cfg.APIKey == "" && cfg.Demo == "" && cfg.AccessTokenCmd == "" {
		log.Println("[WARN] no SavvyCal credential configured; only /v1/public endpoints will work")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
