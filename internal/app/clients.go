package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/pukpuk-backend/internal/clients/redis"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type Clients struct {
	ProductCache redis.ProductCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	cache := redis.NewNoopProductCache()
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		c, err := redis.NewProductCache(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.ProductsCacheTTL,
		}, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis product cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set; product cache disabled")
	}

	return Clients{ProductCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ProductCache != nil {
		_ = c.ProductCache.Close()
	}
}
