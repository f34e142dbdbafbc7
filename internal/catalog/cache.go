package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

const DefaultCacheKey = "catalog:courses"

// Cache persists the whole catalog under a single key. Put always replaces
// the stored record; there are no partial updates.
type Cache struct {
	store KVStore
	key   string
}

func NewCache(store KVStore, key string) *Cache {
	if key == "" {
		key = DefaultCacheKey
	}
	return &Cache{store: store, key: key}
}

// Get returns the stored catalog, or ok=false if nothing was ever stored.
func (c *Cache) Get(ctx context.Context) ([]Course, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil || !ok {
		return nil, false, err
	}

	courses, err := decodeCatalog(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return courses, true, nil
}

func (c *Cache) Put(ctx context.Context, courses []Course) error {
	raw, err := encodeCatalog(courses)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return c.store.Put(ctx, c.key, raw)
}

func (c *Cache) Ping(ctx context.Context) error { return c.store.Ping(ctx) }

func encodeCatalog(courses []Course) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if err := json.NewEncoder(w).Encode(courses); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeCatalog(raw []byte) ([]Course, error) {
	b, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, err
	}

	var courses []Course
	if err := json.Unmarshal(b, &courses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []Course{}
	}
	return courses, nil
}
