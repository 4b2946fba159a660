package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

// matchCache keeps each user's full computed match outcome in Redis for a
// short TTL. Always the untruncated outcome with exclusions included; limit
// and exclusion filtering are applied after retrieval, so every variant of
// the matches endpoints shares one entry per user.
type matchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newMatchCache(rdb *redis.Client, ttl time.Duration) *matchCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &matchCache{rdb: rdb, ttl: ttl}
}

func cacheKey(userID string) string {
	return "matches:" + userID
}

// get returns the cached outcome, or (nil, nil) on a miss. Redis being down
// counts as a miss for the caller; the error is reported for logging only.
func (c *matchCache) get(ctx context.Context, userID string) (*match.Outcome, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out match.Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *matchCache) set(ctx context.Context, userID string, out *match.Outcome) error {
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(userID), raw, c.ttl).Err()
}

func (c *matchCache) invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, cacheKey(userID)).Err()
}
