package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("zenith")

// KVStorage keeps every entry in one bucket of a bbolt file.
type KVStorage struct {
	db *bbolt.DB
}

func NewKVStorage(path string) (*KVStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, errCreateBucket := tx.CreateBucketIfNotExists(bucketName)
		return errCreateBucket
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &KVStorage{db: db}, nil
}

func (k *KVStorage) Get(_ context.Context, key string) (string, error) {
	var value string
	err := k.db.View(func(tx *bbolt.Tx) error {
		// empty values must stay distinguishable from missing keys
		foundKey, raw := tx.Bucket(bucketName).Cursor().Seek([]byte(key))
		if foundKey == nil || string(foundKey) != key {
			return storage.ErrKeyNotFound
		}
		value = string(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (k *KVStorage) Set(_ context.Context, key, value string) error {
	err := k.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (k *KVStorage) Delete(_ context.Context, key string) error {
	err := k.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (k *KVStorage) Close() error {
	return k.db.Close()
}
