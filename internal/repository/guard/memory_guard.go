package guard

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type MemoryGuard struct {
	cache *gocache.Cache
}

// NewMemoryGuard builds an in-process guard. Suitable for single instance
// deployments; multi-instance setups should use the Redis guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (g *MemoryGuard) TryAcquire(_ context.Context, sessionId uuid.UUID, cooldown time.Duration) bool {
	err := g.cache.Add("escalation:"+sessionId.String(), true, cooldown)
	return err == nil
}
