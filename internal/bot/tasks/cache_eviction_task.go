package tasks

import (
	"context"
)

// newCacheEvictionTask creates the scheduled task that drops recall-cache
// buffers for chats idle past the configured TTL, keeping the per-chat map
// from growing without bound.
func newCacheEvictionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cache_eviction")

	return func(ctx context.Context) error {
		ttl := deps.Config.Cache.IdleTTL
		if ttl <= 0 {
			log.DebugContext(ctx, "Idle TTL disabled, skipping eviction")
			return nil
		}

		evicted := deps.RecallCache.EvictIdle(ttl)
		if evicted > 0 {
			log.InfoContext(ctx, "Evicted idle chats from recall cache", "count", evicted, "ttl", ttl)
		}
		return nil
	}
}
