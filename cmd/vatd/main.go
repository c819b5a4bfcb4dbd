// Command vatd serves offline VAT number validation and VIES lookups over
// HTTP, with Prometheus metrics and a health probe on a separate listener.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/vortex-fintech/go-vat/cache"
	"github.com/vortex-fintech/go-vat/config"
	"github.com/vortex-fintech/go-vat/history"
	"github.com/vortex-fintech/go-vat/httpapi"
	"github.com/vortex-fintech/go-vat/logger"
	"github.com/vortex-fintech/go-vat/metrics"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/service"
	"github.com/vortex-fintech/go-vat/shutdown"
	"github.com/vortex-fintech/go-vat/vies"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vatd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, logger.WithLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer log.SafeSync()

	ctx := context.Background()
	vatMetrics := metrics.NewVAT(cfg.Metrics.Namespace)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(vatMetrics),
	}

	var (
		db     *sql.DB
		checks []metrics.Check
	)

	if cfg.VIES.Enabled {
		client, err := vies.New(cfg.VIESConfig(), vies.WithLogger(log))
		if err != nil {
			return fmt.Errorf("vies client: %w", err)
		}
		var checker vies.Checker = client

		if cfg.Redis.Enabled {
			var results *cache.Client
			err := retry.RetryInit(ctx, func() error {
				c, err := cache.Open(ctx, cfg.CacheConfig())
				if err != nil {
					return err
				}
				results = c
				return nil
			})
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer results.Close()
			checks = append(checks, metrics.Check{Name: "redis", Probe: results.Ping})
			checker = vies.NewCached(client, results, log)
			log.Infow("vies results cached in redis", "mode", cfg.Redis.Mode, "ttl", cfg.Redis.TTL)
		}
		opts = append(opts, service.WithChecker(checker))
	}

	if cfg.Postgres.URL != "" {
		err := retry.RetryInit(ctx, func() error {
			d, err := history.Open(ctx, cfg.HistoryConfig())
			if err != nil {
				return err
			}
			db = d
			return nil
		})
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()
		checks = append(checks, metrics.Check{Name: "postgres", Probe: db.PingContext})

		store := history.New(db)
		if cfg.Postgres.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("history migrate: %w", err)
			}
		}
		opts = append(opts, service.WithHistory(store))
	}

	metricsHandler, _, err := metrics.New(metrics.Options{
		Register: vatMetrics.Register,
		Checks:   checks,
	})
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	svc := service.New(opts...)
	api := httpapi.New(svc,
		httpapi.WithLogger(log),
		httpapi.WithMetrics(vatMetrics),
		httpapi.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	)

	mgr := shutdown.New(shutdown.Config{
		ShutdownTimeout: cfg.ShutdownTimeout,
		HandleSignals:   true,
		Logger:          log,
		Metrics:         vatMetrics,
	})
	mgr.Add(&shutdown.HTTPServer{
		NameStr: "http",
		Srv: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
		},
	})
	mgr.Add(&shutdown.HTTPServer{
		NameStr: "metrics",
		Srv: &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsHandler,
			ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		},
	})

	log.Infow("vatd starting",
		"http", cfg.HTTP.Addr,
		"metrics", cfg.Metrics.Addr,
		"vies", cfg.VIES.Enabled,
		"history", db != nil,
	)
	return mgr.Run(ctx)
}
