package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammi749/gamekeys/internal/domain"
)

func newRedisStoreTest(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewRedisStore(rdb, "terminal-1")
}

func TestRedisStore_CartRoundTrip(t *testing.T) {
	sut := newRedisStoreTest(t)
	ctx := context.Background()
	cart := testCart()

	require.NoError(t, sut.SaveCart(ctx, cart))
	loaded, err := sut.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(cart, loaded, decimalComparer))
}

func TestRedisStore_MissingCart(t *testing.T) {
	sut := newRedisStoreTest(t)
	_, err := sut.LoadCart(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TokensRoundTrip(t *testing.T) {
	sut := newRedisStoreTest(t)
	ctx := context.Background()
	pair := domain.TokenPair{Access: "acc", Refresh: "ref"}

	require.NoError(t, sut.SaveTokens(ctx, pair))
	loaded, err := sut.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, loaded)

	require.NoError(t, sut.ClearTokens(ctx))
	_, err = sut.LoadTokens(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_PendingOrder(t *testing.T) {
	sut := newRedisStoreTest(t)
	ctx := context.Background()

	_, err := sut.PendingOrder(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sut.SetPendingOrder(ctx, 7))
	id, err := sut.PendingOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, sut.ClearPendingOrder(ctx))
	_, err = sut.PendingOrder(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

// Two owners on the same Redis server must not see each other's state.
func TestRedisStore_OwnersAreIsolated(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	first := NewRedisStore(rdb, "terminal-1")
	second := NewRedisStore(rdb, "terminal-2")
	ctx := context.Background()

	require.NoError(t, first.SaveTokens(ctx, domain.TokenPair{Access: "a", Refresh: "r"}))
	_, err = second.LoadTokens(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}
