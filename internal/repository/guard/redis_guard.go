package guard

import (
	"context"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisGuard struct {
	client *redis.Client
	logger logger.ILogger
}

// NewRedisGuard builds a guard shared across instances via Redis SETNX.
func NewRedisGuard(client *redis.Client, log logger.ILogger) *RedisGuard {
	return &RedisGuard{
		client: client,
		logger: log,
	}
}

func (g *RedisGuard) TryAcquire(ctx context.Context, sessionId uuid.UUID, cooldown time.Duration) bool {
	key := "escalation:cooldown:" + sessionId.String()
	ok, err := g.client.SetNX(ctx, key, 1, cooldown).Result()
	if err != nil {
		// Fail open: a duplicate alert beats a silently dropped one.
		g.logger.Warn("RedisGuard", "Escalation guard unavailable, allowing dispatch", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return true
	}
	return ok
}
