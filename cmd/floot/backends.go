package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/lib/pq"  // Postgres Driver
	_ "modernc.org/sqlite" // SQLite Driver

	"github.com/Mindburn-Labs/floot/pkg/config"
	"github.com/Mindburn-Labs/floot/pkg/events"
	"github.com/Mindburn-Labs/floot/pkg/observability"
	"github.com/Mindburn-Labs/floot/pkg/registry"
)

func setupLogging(cfg *config.Config, stderr io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
}

// openRegistry selects the registry from DATABASE_URL: empty is in-memory,
// postgres:// URLs use lib/pq, anything else is a sqlite path.
func openRegistry(ctx context.Context, cfg *config.Config) (registry.Registry, func(), error) {
	if cfg.DatabaseURL == "" {
		return registry.NewInMemoryRegistry(), func() {}, nil
	}

	driver := "sqlite"
	if cfg.UsesPostgres() {
		driver = "postgres"
	}
	db, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// Mint reads MAX(id) and inserts in one transaction; one writer keeps that serial.
		db.SetMaxOpenConns(1)
	}
	reg := registry.NewSQLRegistry(db)
	if err := reg.Init(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to init %s registry: %w", driver, err)
	}
	slog.InfoContext(ctx, "registry ready", "driver", driver)
	return reg, func() { _ = db.Close() }, nil
}

// openSink connects the Redis event stream when REDIS_ADDR is set. An
// unreachable server disables the sink rather than failing the run.
func openSink(ctx context.Context, cfg *config.Config) (events.Sink, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	sink := events.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisStream)
	if err := sink.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "redis unavailable, seed events will not be streamed", "addr", cfg.RedisAddr, "error", err)
		_ = sink.Close()
		return nil, func() {}
	}
	return sink, func() { _ = sink.Close() }
}

func openObservability(ctx context.Context, cfg *config.Config) (*observability.Provider, error) {
	oc := observability.DefaultConfig()
	oc.Enabled = cfg.OTelEnabled
	oc.OTLPEndpoint = cfg.OTLPEndpoint
	return observability.New(ctx, oc)
}
