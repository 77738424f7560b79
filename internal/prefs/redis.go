package prefs

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis under "<profile>:<key>", without expiry.
type RedisStore struct {
	rdb     *redis.Client
	profile string
}

func NewRedisStore(rdb *redis.Client, profile string) *RedisStore {
	return &RedisStore{rdb: rdb, profile: profile}
}

func (r *RedisStore) key(k string) string {
	return r.profile + ":" + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}
