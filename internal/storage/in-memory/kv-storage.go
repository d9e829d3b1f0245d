package in_memory

import (
	"context"
	"sync"

	"github.com/iamvkosarev/zenith-ai/internal/storage"
)

type KVStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStorage() *KVStorage {
	return &KVStorage{
		values: make(map[string]string),
	}
}

func (k *KVStorage) Get(_ context.Context, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	value, ok := k.values[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

func (k *KVStorage) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

func (k *KVStorage) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}
