package bot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"easypcm_backend/platform/logger"
)

// EventRegister is the slice of the repository the dedup gate needs.
type EventRegister interface {
	RegisterEventIfNew(ctx context.Context, dedupKey, chatID string, payload []byte) (bool, error)
}

// Deduper gates inbound updates. Redis SETNX is a best-effort fast path;
// the events table is the authority, so a Redis outage degrades to
// database-only dedup instead of dropping or double-processing updates.
type Deduper struct {
	repo   EventRegister
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewDeduper(repo EventRegister, client *redis.Client, ttl time.Duration, log *logger.Logger) *Deduper {
	return &Deduper{repo: repo, client: client, ttl: ttl, logger: log}
}

// Seen reports whether the update identified by dedupKey was already
// processed, registering it when it was not.
func (d *Deduper) Seen(ctx context.Context, dedupKey, chatID string, payload []byte) (bool, error) {
	if d.client != nil {
		set, err := d.client.SetNX(ctx, "dedup:"+dedupKey, 1, d.ttl).Result()
		if err != nil {
			d.logger.Warn("dedup cache unavailable, falling back to database", "error", err)
		} else if !set {
			return true, nil
		}
	}
	fresh, err := d.repo.RegisterEventIfNew(ctx, dedupKey, chatID, payload)
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
