package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// document is one JSON value stored under a single key.
type document[T any] struct {
	store ports.KVStore
	key   string
	log   *logger.Logger
}

func newDocument[T any](store ports.KVStore, key string, log *logger.Logger) document[T] {
	return document[T]{store: store, key: key, log: log.WithFields("key", key)}
}

// load returns the stored value, or def() when the key is missing, unreadable or
// holds something that does not decode. Failures are logged, never returned.
func (d document[T]) load(ctx context.Context, def func() T) (T, ports.LoadResult) {
	raw, found, err := d.store.Get(ctx, d.key)
	if err != nil {
		d.log.WithError(err).Error("Failed to read document, using default")
		return def(), ports.LoadResult{UsedDefault: true, Err: err}
	}
	if !found || raw == "" {
		return def(), ports.LoadResult{UsedDefault: true}
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		err = fmt.Errorf("failed to decode %s: %w", d.key, err)
		d.log.WithError(err).Error("Corrupt document, using default")
		return def(), ports.LoadResult{UsedDefault: true, Err: err}
	}
	return v, ports.LoadResult{}
}

func (d document[T]) save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.key, err)
	}
	if err := d.store.Set(ctx, d.key, string(b)); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.key, err)
	}
	return nil
}

func (d document[T]) remove(ctx context.Context) error {
	if err := d.store.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", d.key, err)
	}
	return nil
}
