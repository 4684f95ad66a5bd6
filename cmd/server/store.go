package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/api"
	"github.com/soaringjerry/Guidance/internal/cache"
	"github.com/soaringjerry/Guidance/internal/config"
	dbstore "github.com/soaringjerry/Guidance/internal/db"
	"github.com/soaringjerry/Guidance/internal/services"
)

// openStore returns the SQLite store, or the in-memory store when no path
// is configured.
func openStore(cfg config.Config, log *zap.Logger) (api.Store, error) {
	if cfg.SQLitePath == "" {
		log.Warn("no sqlite path configured, history is kept in memory only")
		return api.NewMemoryStore(), nil
	}
	store, err := dbstore.Open(cfg.SQLitePath, cfg.MigrationsDir, log.Named("sqlite"))
	if err != nil {
		return nil, err
	}
	log.Info("sqlite store ready", zap.String("path", cfg.SQLitePath))
	return store, nil
}

// openCache connects the Redis insight cache. A missing address or an
// unreachable server disables caching rather than failing startup.
func openCache(ctx context.Context, cfg config.Config, log *zap.Logger) (services.InsightCache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	client, err := cache.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("insight cache disabled", zap.Error(err))
		return nil, func() {}
	}
	log.Info("insight cache ready", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.InsightCacheTTL))
	return cache.NewInsightCache(client, cfg.InsightCacheTTL, log.Named("cache")), func() { _ = client.Close() }
}
