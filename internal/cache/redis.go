package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/models"
	"github.com/soaringjerry/Guidance/internal/services"
)

// InsightCache keeps generated insights in one Redis hash per student so a
// submission can drop every cached window with a single DEL.
type InsightCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

var _ services.InsightCache = (*InsightCache)(nil)

// Open connects to addr and verifies the connection with PING.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewInsightCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *InsightCache {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &InsightCache{client: client, ttl: ttl, log: log}
}

func userKey(userID string) string { return "insights:" + userID }

func (c *InsightCache) Get(ctx context.Context, userID, key string) ([]models.Insight, bool) {
	raw, err := c.client.HGet(ctx, userKey(userID), key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("insight cache read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	var out []models.Insight
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("insight cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return out, true
}

func (c *InsightCache) Set(ctx context.Context, userID, key string, insights []models.Insight) {
	raw, err := json.Marshal(insights)
	if err != nil {
		c.log.Warn("insight cache encode failed", zap.Error(err))
		return
	}
	k := userKey(userID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, k, key, raw)
	pipe.Expire(ctx, k, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("insight cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (c *InsightCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, userKey(userID)).Err(); err != nil {
		c.log.Warn("insight cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
