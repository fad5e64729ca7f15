package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

func newTestCache(t *testing.T) (*SourceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewSourceCache(logger.Nop(), config.RedisConfig{
		Addr: mr.Addr(),
		TTL:  config.Duration{Duration: time.Minute},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSourceCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "https://api.example.com/stats")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "https://api.example.com/stats", []byte(`{"n":1}`)))

	body, ok, err := c.Get(ctx, "https://api.example.com/stats")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"n":1}`, string(body))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, c.key("https://api.example.com/stats"), keys[0])
	assert.Contains(t, keys[0], defaultKeyPrefix)
}

func TestSourceCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://x", []byte(`[]`)))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "https://x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSourceCacheReportsOutage(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "https://x")
	assert.Error(t, err)
}

func TestNewSourceCacheRequiresAddr(t *testing.T) {
	_, err := NewSourceCache(logger.Nop(), config.RedisConfig{})
	assert.Error(t, err)
}
