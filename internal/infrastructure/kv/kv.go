// Package kv holds the key-value stores backing the settings collections.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/billbook-api/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat byte-valued key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns the store selected by KV_DRIVER.
func Open(cfg *config.KVConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "redis":
		client, err := ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info("redis connected")
		return NewRedisStore(client, DefaultPrefix), nil
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported kv driver %q", cfg.Driver)
	}
}
