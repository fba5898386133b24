package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/pkg/config"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	cache, err := NewCache(context.Background(), config.RedisConfig{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, srv
}

func TestCache_SetYGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "report:sales:1:2", []byte(`{"revenue":"10"}`), time.Minute))

	got, err := cache.Get(ctx, "report:sales:1:2")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"revenue":"10"}`), got)
}

func TestCache_MissDevuelveNil(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_ExpiraPorTTL(t *testing.T) {
	cache, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "report:inventory:5", []byte(`{}`), time.Second))
	srv.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, "report:inventory:5")
	require.NoError(t, err)
	assert.Nil(t, got)
}
