package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	domcart "example.com/gameshop/internal/domain/cart"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisCartStorage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCartStorage(client, ttl), mr
}

func TestLoad_Missing(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)

	_, err := store.Load(context.Background(), "gse_cart:nope")

	require.ErrorIs(t, err, domcart.ErrCartMissing)
}

func TestSaveThenLoad(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()
	data := []byte(`[{"title":"Game A","priceCents":2000,"qty":2,"slug":"game-a"}]`)

	require.NoError(t, store.Save(ctx, "gse_cart:abc", data))

	got, err := store.Load(ctx, "gse_cart:abc")
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(got))
	require.Equal(t, time.Hour, mr.TTL("gse_cart:abc"))
}

func TestSave_RefreshesTTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "gse_cart:abc", []byte(`[]`)))
	mr.FastForward(50 * time.Minute)
	require.NoError(t, store.Save(ctx, "gse_cart:abc", []byte(`[]`)))
	mr.FastForward(50 * time.Minute)

	_, err := store.Load(ctx, "gse_cart:abc")
	require.NoError(t, err)
}

func TestLoad_Expired(t *testing.T) {
	store, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "gse_cart:abc", []byte(`[]`)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "gse_cart:abc")
	require.ErrorIs(t, err, domcart.ErrCartMissing)
}

func TestRedisUnavailable(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	_, err := store.Load(context.Background(), "gse_cart:abc")
	require.Error(t, err)
	require.NotErrorIs(t, err, domcart.ErrCartMissing)

	require.Error(t, store.Save(context.Background(), "gse_cart:abc", []byte(`[]`)))
	require.Error(t, store.Ping(context.Background()))
}
