package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"antique-catalog/internal/catalogerrors"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// Helper to start a store against an in-process Redis
func newRedisStore(t *testing.T, addr, prefix string, quota int64) *RedisStore {
	t.Helper()
	store, err := NewRedisStore(RedisConfig{Addr: addr, KeyPrefix: prefix, QuotaBytes: quota})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore_ReadWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr(), "test", 0)

	_, err := store.Read(ctx, KeyOffers)
	require.ErrorIs(t, err, catalogerrors.ErrKeyNotFound)

	require.NoError(t, store.Write(ctx, KeyOffers, []byte(`[{"id":"o1"}]`)))
	value, err := store.Read(ctx, KeyOffers)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"o1"}]`, string(value))
	require.Equal(t, `[{"id":"o1"}]`, mr.HGet("test:data", KeyOffers))
}

func TestRedisStore_Quota(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr(), "test", 25)

	require.NoError(t, store.Write(ctx, "a", []byte("0123456789")))

	err := store.Write(ctx, "b", []byte("0123456789abcdef"))
	require.ErrorIs(t, err, catalogerrors.ErrQuotaExceeded)
	require.Empty(t, mr.HGet("test:data", "b"))

	require.NoError(t, store.Write(ctx, "a", []byte("0123456789abcdefghijklm")))
}

func TestRedisStore_OnExternalChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	tabA := newRedisStore(t, mr.Addr(), "shop", 0)
	tabB := newRedisStore(t, mr.Addr(), "shop", 0)

	var mu sync.Mutex
	var received []string
	tabB.OnExternalChange(KeySubmissions, func(value []byte) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(value))
	})

	var own int
	tabA.OnExternalChange(KeySubmissions, func([]byte) { own++ })

	require.NoError(t, tabA.Write(ctx, KeySubmissions, []byte("v1")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1 && received[0] == "v1"
	}, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, own)
}
