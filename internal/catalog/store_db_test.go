//go:build integration
// +build integration

package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with CATALOG_TEST_POSTGRES_DSN=postgres://... go test -tags integration ./internal/catalog/
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("CATALOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_POSTGRES_DSN not set")
	}

	s, err := OpenPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dropKey(t *testing.T, s *PostgresStore, key string) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(context.Background(), `DELETE FROM catalog_cache WHERE key = $1`, key)
	})
}

func TestPostgresStore(t *testing.T) {
	storeContract(t, func(t *testing.T) KVStore {
		s := newTestPostgresStore(t)
		dropKey(t, s, "k")
		return s
	})
}

func TestPostgresStore_MissPutOverwrite(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	dropKey(t, s, key)

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, []byte("first")))
	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("first"), got)

	require.NoError(t, s.Put(ctx, key, []byte("second")))
	got, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT count(*) FROM catalog_cache WHERE key = $1`, key).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestPostgresStore_MigrateTwice(t *testing.T) {
	s := newTestPostgresStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_CatalogSurvivesReopen(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	dropKey(t, s, key)

	first := NewController(NewCache(s, key), WithRand(NewRand(21)))
	require.NoError(t, first.Init(ctx))

	again := NewController(NewCache(newTestPostgresStore(t), key), WithRand(NewRand(22)))
	require.NoError(t, again.Init(ctx))
	assert.Equal(t, first.All(), again.All())
}
