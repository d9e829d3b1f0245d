package key_value

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"github.com/redis/go-redis/v9"
)

type KVStorage struct {
	rdb *redis.Client
}

func NewKVStorage(rdb *redis.Client) *KVStorage {
	return &KVStorage{
		rdb: rdb,
	}
}

func (k *KVStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := k.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (k *KVStorage) Set(ctx context.Context, key, value string) error {
	if err := k.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (k *KVStorage) Delete(ctx context.Context, key string) error {
	if err := k.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
