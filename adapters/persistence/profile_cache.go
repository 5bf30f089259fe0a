package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
)

const profileViewKeyPrefix = "profile:view:"

type redisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProfileCache(rdb *redis.Client, ttl time.Duration) profile.ViewCache {
	return &redisProfileCache{rdb: rdb, ttl: ttl}
}

func profileViewKey(ownerID uuid.UUID) string {
	return profileViewKeyPrefix + ownerID.String()
}

func (c *redisProfileCache) Get(ctx context.Context, ownerID uuid.UUID) (*profile.View, error) {
	raw, err := c.rdb.Get(ctx, profileViewKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var v profile.View
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *redisProfileCache) Set(ctx context.Context, ownerID uuid.UUID, v profile.View) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, profileViewKey(ownerID), raw, c.ttl).Err()
}

func (c *redisProfileCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.rdb.Del(ctx, profileViewKey(ownerID)).Err()
}
