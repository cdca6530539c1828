package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/infrastructure/kv"
)

type settingsRepository struct {
	store kv.Store
}

// NewSettingsRepository stores settings as JSON values in a key-value store
func NewSettingsRepository(store kv.Store) domainRepo.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *settingsRepository) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.Set(ctx, key, raw)
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}

func (r *settingsRepository) Usage(ctx context.Context) (map[string]int, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	usage := make(map[string]int, len(keys))
	for _, k := range keys {
		raw, err := r.store.Get(ctx, k)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		usage[k] = len(raw)
	}
	return usage, nil
}
