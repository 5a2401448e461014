package app

import (
	"context"
	"testing"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/config"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenBackends_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreMemory, Bridge: config.BridgeLocal}

	b, err := OpenBackends(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &storage.MemoryKV{}, b.KV)
	assert.IsType(t, &bridge.LocalHub{}, b.Transport)
}

func TestOpenBackends_File(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreFile, StoreDir: t.TempDir(), Bridge: config.BridgeLocal}

	b, err := OpenBackends(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.KV.Set(context.Background(), storage.KeyHotelInfo, `{"name":"ZENStay"}`))
	v, err := b.KV.Get(context.Background(), storage.KeyHotelInfo)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ZENStay"}`, v)
}

func TestOpenBackends_BadRedisURL(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreRedis, RedisURL: "://nope", Bridge: config.BridgeLocal}

	_, err := OpenBackends(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "parse REDIS_URL")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_kv_store.sql", entries[0].Name())
}
