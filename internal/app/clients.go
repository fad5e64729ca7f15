package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/dashgen-backend/internal/clients/redis"
	"github.com/yungbote/dashgen-backend/internal/clients/source"
	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/llm/router"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type Clients struct {
	LLM         *router.Router
	SourceCache *redis.SourceCache
	Fetcher     *source.Fetcher
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Models
	llmRouter, err := router.New(ctx, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init model router: %w", err)
	}
	log.Info("model router ready", "models", llmRouter.ListModels())

	// Redis (optional)
	var (
		cache *redis.SourceCache
		opts  []source.Option
	)
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := redis.NewSourceCache(log, cfg.Redis)
		if err != nil {
			log.Warn("redis source cache unavailable, fetching uncached", "addr", cfg.Redis.Addr, "error", err)
		} else {
			cache = c
			opts = append(opts, source.WithCache(c))
		}
	}

	// Source fetcher
	fetcher := source.New(log, cfg.Fetch, opts...)

	return Clients{
		LLM:         llmRouter,
		SourceCache: cache,
		Fetcher:     fetcher,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SourceCache != nil {
		_ = c.SourceCache.Close()
	}
}
