package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, KeyRooms)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyRooms, `[{"roomId":1}]`))
	require.NoError(t, kv.Set(ctx, KeyBookings, `[]`))

	v, err := kv.Get(ctx, KeyRooms)
	require.NoError(t, err)
	assert.Equal(t, `[{"roomId":1}]`, v)

	require.NoError(t, kv.Set(ctx, KeyRooms, `[]`))
	v, err = kv.Get(ctx, KeyRooms)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, kv.Delete(ctx, KeyRooms))
	require.NoError(t, kv.Delete(ctx, KeyRooms), "deleting a missing key is not an error")
	_, err = kv.Get(ctx, KeyRooms)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Clear(ctx))
	_, err = kv.Get(ctx, KeyBookings)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	exerciseKV(t, kv)
}

func TestFileKV_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))
	require.NoError(t, kv.Set(context.Background(), KeyUsers, `[]`))

	require.NoError(t, kv.Clear(context.Background()))

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, KeyUsers+".json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRedisKV(t *testing.T) {
	db, mock := redismock.NewClientMock()
	kv := NewRedisKV(db, "")
	ctx := context.Background()

	mock.ExpectGet("hotel:hotelRooms").RedisNil()
	mock.ExpectSet("hotel:hotelRooms", `[]`, 0).SetVal("OK")
	mock.ExpectGet("hotel:hotelRooms").SetVal(`[]`)
	mock.ExpectDel("hotel:hotelRooms").SetVal(1)
	mock.ExpectScan(0, "hotel:*", 100).SetVal([]string{"hotel:hotelBookings", "hotel:userData"}, 0)
	mock.ExpectDel("hotel:hotelBookings", "hotel:userData").SetVal(2)

	_, err := kv.Get(ctx, KeyRooms)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyRooms, `[]`))

	v, err := kv.Get(ctx, KeyRooms)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, kv.Delete(ctx, KeyRooms))
	require.NoError(t, kv.Clear(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
