package catalog

import (
	"context"
	"errors"
)

var ErrStoreClosed = errors.New("store closed")

// KVStore is the durable key-value backend behind the catalog cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
