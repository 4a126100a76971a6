package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

func TestNewProductCacheRequiresAddr(t *testing.T) {
	_, err := NewProductCache(Config{}, logger.Nop())
	assert.Error(t, err)

	_, err = NewProductCache(Config{Addr: "localhost:6379"}, nil)
	assert.Error(t, err)
}

func TestNoopCacheNeverHits(t *testing.T) {
	c := NewNoopProductCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", []types.Product{{ID: "p1"}}))
	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateAll(ctx))
	assert.NoError(t, c.Close())
}

func TestProductCacheLive(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis cache tests")
	}
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	c, err := NewProductCache(Config{Addr: addr, TTL: time.Minute}, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	products := []types.Product{{ID: "p1", Name: "Garlic", Category: types.CategorySpices, Unit: "kg"}}
	require.NoError(t, c.Set(ctx, "u1", products))
	require.NoError(t, c.Set(ctx, "u2", nil))

	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, products, got)

	empty, ok, err := c.Get(ctx, "u2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, empty)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	_, ok, err = c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
	_, ok, err = c.Get(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}
