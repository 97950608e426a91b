// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/dberr"
)

// RedisStorage keeps the slot under `expensa:<key>` so several hosts can
// share one signed-in session.
type RedisStorage struct {
	client redis.Cmdable
	key    string
}

// NewRedisStorage creates a Redis-backed slot.
func NewRedisStorage(client redis.Cmdable, key string) *RedisStorage {
	return &RedisStorage{client: client, key: constants.RedisPrefixCredential + key}
}

func (storage *RedisStorage) Load(ctx context.Context) (string, error) {
	token, err := storage.client.Get(ctx, storage.key).Result()
	if err != nil {
		return "", dberr.Wrap(err, "redis", "load")
	}
	return token, nil
}

// Save stores the token without TTL; expiry is judged from its claims.
func (storage *RedisStorage) Save(ctx context.Context, token string) error {
	return dberr.Wrap(storage.client.Set(ctx, storage.key, token, 0).Err(), "redis", "save")
}

func (storage *RedisStorage) Clear(ctx context.Context) error {
	return dberr.Wrap(storage.client.Del(ctx, storage.key).Err(), "redis", "clear")
}
