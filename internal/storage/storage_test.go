package storage

import (
	"context"
	"testing"

	"fenix-certificates/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGorm(t *testing.T) *GormBackend {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Snapshot{}))
	return &GormBackend{DB: db}
}

func setupRedis(t *testing.T) *RedisBackend {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &RedisBackend{Rdb: rdb, Prefix: "test:"}
}

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"gorm":   setupGorm(t),
		"redis":  setupRedis(t),
	}
}

func TestBackends_Lifecycle(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Load(ctx, "fenix_certs")
			assert.ErrorIs(t, err, ErrNoSnapshot)

			require.NoError(t, b.Save(ctx, "fenix_certs", []byte(`[{"id":"1"}]`)))
			got, err := b.Load(ctx, "fenix_certs")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, string(got))

			// Whole payload is overwritten.
			require.NoError(t, b.Save(ctx, "fenix_certs", []byte(`[{"id":"2"},{"id":"1"}]`)))
			got, err = b.Load(ctx, "fenix_certs")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"2"},{"id":"1"}]`, string(got))

			require.NoError(t, b.Delete(ctx, "fenix_certs"))
			_, err = b.Load(ctx, "fenix_certs")
			assert.ErrorIs(t, err, ErrNoSnapshot)

			// Deleting a missing key is not an error.
			assert.NoError(t, b.Delete(ctx, "fenix_certs"))
		})
	}
}

func TestBackends_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Save(ctx, "a", []byte(`[]`)))
			require.NoError(t, b.Save(ctx, "b", []byte(`[{"id":"x"}]`)))
			require.NoError(t, b.Delete(ctx, "a"))
			got, err := b.Load(ctx, "b")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"x"}]`, string(got))
		})
	}
}

func TestRedisBackend_Prefix(t *testing.T) {
	b := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, b.Save(ctx, "fenix_certs", []byte(`[]`)))
	v, err := b.Rdb.Get(ctx, "test:fenix_certs").Result()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
