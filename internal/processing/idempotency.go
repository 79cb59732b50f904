package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intake/internal/config"
	"intake/internal/constants"
	"intake/internal/logger"
)

// KeyRepository records which envelope IDs have already been processed.
type KeyRepository interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type RedisKeyRepository struct {
	client *redis.Client
}

func NewKeyRepository(client *redis.Client) KeyRepository {
	return &RedisKeyRepository{client: client}
}

func (r *RedisKeyRepository) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return ok, nil
}

func (r *RedisKeyRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}

// Guard decides whether a delivery should be processed. The broker delivers
// at least once; the guard claims the envelope ID with SetNX so a redelivery
// of an already-processed envelope is skipped instead of rewritten.
type Guard struct {
	repo   KeyRepository
	cfg    config.IdempotencyConfig
	logger logger.Logger
}

func NewGuard(repo KeyRepository, cfg config.IdempotencyConfig, log logger.Logger) *Guard {
	return &Guard{repo: repo, cfg: cfg, logger: log}
}

// Claim returns true when this delivery is the first for the envelope and
// processing should proceed. When Redis is unreachable the configured
// fallback decides: "process" lets the delivery through (the store upsert
// keeps the outcome correct), "skip" drops it.
func (g *Guard) Claim(ctx context.Context, envelopeID string) (bool, error) {
	if g == nil || !g.cfg.Enabled {
		return true, nil
	}

	key := constants.ProcessedKeyPrefix + envelopeID
	ttl := time.Duration(g.cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = constants.DefaultProcessedTTL
	}

	ok, err := g.repo.SetNX(ctx, key, time.Now().Unix(), ttl)
	if err != nil {
		if g.cfg.OnRedisError == constants.OnRedisErrorProcess {
			g.logger.WarnwCtx(ctx, "Redis error during idempotency check, processing anyway (fallback: process)",
				"error", err,
				"envelope_id", envelopeID,
			)
			return true, nil
		}
		return false, fmt.Errorf("redis error during idempotency check for envelope %s: %w", envelopeID, err)
	}

	return ok, nil
}

// Release frees the claim after a failed attempt so the broker's redelivery
// is not mistaken for a duplicate of a successful run.
func (g *Guard) Release(ctx context.Context, envelopeID string) {
	if g == nil || !g.cfg.Enabled {
		return
	}

	key := constants.ProcessedKeyPrefix + envelopeID
	if err := g.repo.Delete(ctx, key); err != nil {
		g.logger.WarnwCtx(ctx, "Failed to release idempotency claim",
			"error", err,
			"envelope_id", envelopeID,
		)
	}
}
