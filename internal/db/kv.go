package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/oatsaysai/letters-to-kopi/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("key not found")

// KV is durable key-value storage. Each Put replaces the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend selected by cfg.Driver
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Storage.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgreSQL)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
