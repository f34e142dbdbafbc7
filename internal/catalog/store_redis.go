package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisDialTimeout = 5 * time.Second

type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore connects and pings addr; the client is closed if the ping fails.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: redisDialTimeout,
	})

	s := &RedisStore{rdb: rdb}
	if err := s.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return s, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.rdb.Ping(ctx).Err()
	})
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var b []byte
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		b, err = s.rdb.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.rdb.Set(ctx, key, value, 0).Err()
	})
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
