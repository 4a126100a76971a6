package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const (
	DefaultProductsTTL = 10 * time.Minute
	productsKeyPrefix  = "pukpuk:products:"
)

// ProductCache holds each user's derived product list between demand writes.
type ProductCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, userID string) ([]types.Product, bool, error)
	Set(ctx context.Context, userID string, products []types.Product) error
	Invalidate(ctx context.Context, userID string) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type productCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewProductCache(cfg Config, log *logger.Logger) (ProductCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultProductsTTL
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

	return &productCache{
		log: log.With("service", "RedisProductCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func productsKey(userID string) string { return productsKeyPrefix + userID }

func (c *productCache) Get(ctx context.Context, userID string) ([]types.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, productsKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var out []types.Product
	if err := json.Unmarshal(raw, &out); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		c.log.Warn("Dropping undecodable product cache entry", "user_id", userID, "error", err)
		return nil, false, nil
	}
	return out, true, nil
}

func (c *productCache) Set(ctx context.Context, userID string, products []types.Product) error {
	if products == nil {
		products = []types.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productsKey(userID), raw, c.ttl).Err()
}

func (c *productCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, productsKey(userID)).Err()
}

func (c *productCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, productsKeyPrefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *productCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

type noopCache struct{}

// NewNoopProductCache returns a cache that never hits, used when Redis is not
// configured.
func NewNoopProductCache() ProductCache { return noopCache{} }

func (noopCache) Get(context.Context, string) ([]types.Product, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []types.Product) error         { return nil }
func (noopCache) Invalidate(context.Context, string) error                   { return nil }
func (noopCache) InvalidateAll(context.Context) error                        { return nil }
func (noopCache) Close() error                                               { return nil }
