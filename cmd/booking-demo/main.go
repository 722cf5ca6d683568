package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"savvycal/internal/booking"
	"savvycal/pkg/client"
	"savvycal/pkg/config"
	"savvycal/pkg/db"
	"savvycal/pkg/logger"
	"savvycal/pkg/middleware"
	"savvycal/pkg/query"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	api, err := client.New(client.Options{
		BaseURL:    cfg.BaseURL,
		Account:    cfg.Account,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout, Transport: client.TracingTransport(nil)},
		Middleware: []client.Middleware{client.RequestID(middleware.RequestIDFrom)},
		Logger:     log,
	})
	if err != nil {
		log.Fatalw("savvycal client", "err", err)
	}

	var store query.Store = query.NewMemoryStore()
	if rdb := db.MustRedis(cfg, log); rdb != nil {
		store = query.NewRedisStore(rdb, "savvycal:booking:")
		defer rdb.Close()
	}
	cache := query.New(store, query.Options{
		StaleTime: cfg.StaleTime,
		CacheTime: cfg.CacheTime,
		Retries:   query.RetryLimit(cfg.MaxRetries),
		Logger:    log,
	})

	var services []string
	if cfg.ServiceID != "" {
		services = strings.Split(cfg.ServiceID, ",")
	}
	var origins []string
	if v := strings.TrimSpace(os.Getenv("BOOKING_CORS_ORIGINS")); v != "" {
		origins = strings.Split(v, ",")
	}
	app := &booking.App{
		API:             api,
		Cache:           cache,
		Log:             log,
		Services:        services,
		DefaultTimeZone: os.Getenv("BOOKING_TIME_ZONE"),
		CORSOrigins:     origins,
		PublicURL:       cfg.PublicURL,
	}

	srv := &http.Server{Addr: cfg.BookingAddr, Handler: app.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infow("booking-demo listening", "addr", cfg.BookingAddr, "api", api.BaseURL(), "services", services)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("booking-demo stopped")
}
