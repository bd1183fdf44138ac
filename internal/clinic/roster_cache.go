package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rosterKey = "clinic:roster:doctors"

// RosterCache keeps the doctor list in Redis. Doctors are immutable after
// seeding, so entries only expire by TTL. A nil cache is a no-op.
type RosterCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRosterCache returns a cache on client, or nil when client is nil.
func NewRosterCache(client *redis.Client, ttl time.Duration) *RosterCache {
	if client == nil {
		return nil
	}
	return &RosterCache{redis: client, ttl: ttl}
}

// Get returns the cached roster and whether it was present.
func (c *RosterCache) Get(ctx context.Context) ([]Doctor, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.redis.Get(ctx, rosterKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("clinic: get roster: %w", err)
	}

	var doctors []Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, false, fmt.Errorf("clinic: decode roster: %w", err)
	}
	return doctors, true, nil
}

// Set stores the roster.
func (c *RosterCache) Set(ctx context.Context, doctors []Doctor) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(doctors)
	if err != nil {
		return fmt.Errorf("clinic: encode roster: %w", err)
	}
	if err := c.redis.Set(ctx, rosterKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("clinic: set roster: %w", err)
	}
	return nil
}

// Invalidate drops the cached roster.
func (c *RosterCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.redis.Del(ctx, rosterKey).Err(); err != nil {
		return fmt.Errorf("clinic: invalidate roster: %w", err)
	}
	return nil
}
