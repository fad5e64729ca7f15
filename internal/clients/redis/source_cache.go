package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultKeyPrefix = "dashgen:source:"
)

// SourceCache keeps successful source bodies in Redis for a short TTL.
// It satisfies source.Cache.
type SourceCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

func NewSourceCache(log *logger.Logger, cfg config.RedisConfig) (*SourceCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.TTL.Duration
	if ttl <= 0 {
		ttl = defaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &SourceCache{
		log:    log.With("service", "RedisSourceCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (c *SourceCache) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *SourceCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("redis source cache not initialized")
	}
	b, err := c.rdb.Get(ctx, c.key(url)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	c.log.Debug("source cache hit", "url", url)
	return b, true, nil
}

func (c *SourceCache) Set(ctx context.Context, url string, body []byte) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis source cache not initialized")
	}
	return c.rdb.Set(ctx, c.key(url), body, c.ttl).Err()
}

func (c *SourceCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
