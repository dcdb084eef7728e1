package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/config"
	"github.com/teleposta/ict-helpdesk/internal/testutil"
)

type entry struct {
	Name string `json:"name"`
}

func TestRemember_NilCacheCallsThrough(t *testing.T) {
	calls := 0
	load := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Name: "ICT"}}, nil
	}

	c := New(nil, config.CacheConfig{Enabled: true}, zap.NewNop())
	require.Nil(t, c)

	for i := 0; i < 2; i++ {
		got, err := Remember(context.Background(), c, "departments", load)
		require.NoError(t, err)
		assert.Equal(t, "ICT", got[0].Name)
	}
	assert.Equal(t, 2, calls)
	c.Invalidate(context.Background(), "departments")
}

func TestRemember_Redis(t *testing.T) {
	rdb := testutil.RedisClient(t)
	c := New(rdb, config.CacheConfig{Enabled: true, TTLSeconds: 30, Prefix: "test:" + uuid.NewString()}, zap.NewNop())
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Name: "Finance"}}, nil
	}

	first, err := Remember(ctx, c, "departments", load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "departments", load)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	ttl, err := rdb.TTL(ctx, c.key("departments")).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 30*time.Second)

	c.Invalidate(ctx, "departments")
	_, err = Remember(ctx, c, "departments", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_LoaderErrorNotCached(t *testing.T) {
	rdb := testutil.RedisClient(t)
	c := New(rdb, config.CacheConfig{Enabled: true, TTLSeconds: 30, Prefix: "test:" + uuid.NewString()}, zap.NewNop())

	boom := errors.New("db down")
	_, err := Remember(context.Background(), c, "buildings", func(context.Context) ([]entry, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := rdb.Exists(context.Background(), c.key("buildings")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
