package services

import (
	"context"
	"errors"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/pukpuk-backend/internal/clients/redis"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type ProductService interface {
	// ListProducts returns the user's derived products sorted by name.
	ListProducts(ctx context.Context, userID string) ([]types.Product, error)
	Stats(ctx context.Context, userID string) ([]*types.ProductAggregate, error)
	Summary(ctx context.Context, userID, productID string) (*types.ProductSummary, error)
	LastUpdated(ctx context.Context) (*LastUpdated, error)
}

type LastUpdated struct {
	Key       string     `json:"key"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type productService struct {
	log      *logger.Logger
	demands  repos.DemandRepo
	metadata repos.MetadataRepo
	cache    redis.ProductCache
	flight   singleflight.Group
}

func NewProductService(log *logger.Logger, demands repos.DemandRepo, metadata repos.MetadataRepo, cache redis.ProductCache) ProductService {
	if cache == nil {
		cache = redis.NewNoopProductCache()
	}
	return &productService{
		log:      log.With("service", "ProductService"),
		demands:  demands,
		metadata: metadata,
		cache:    cache,
	}
}

func fetchProductsFailed(err error) error {
	return apierr.Upstream("fetch_products_failed", "Failed to fetch products", err)
}

func (s *productService) ListProducts(ctx context.Context, userID string) ([]types.Product, error) {
	if cached, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.log.Warn("Product cache read failed", "user_id", userID, "error", err)
	} else if ok {
		return cached, nil
	}

	// The shared lookup is detached from any one caller so a disconnecting
	// client cannot fail the others waiting on it.
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(userID, func() (interface{}, error) {
		aggs, err := s.demands.AggregateProducts(shared, userID)
		if err != nil {
			return nil, err
		}
		out := make([]types.Product, 0, len(aggs))
		for _, a := range aggs {
			out = append(out, a.Product)
		}
		if err := s.cache.Set(shared, userID, out); err != nil {
			s.log.Warn("Product cache write failed", "user_id", userID, "error", err)
		}
		return out, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	if res.Err != nil {
		s.log.Error("Aggregate products failed", "user_id", userID, "error", res.Err)
		return nil, fetchProductsFailed(res.Err)
	}
	return res.Val.([]types.Product), nil
}

func (s *productService) Stats(ctx context.Context, userID string) ([]*types.ProductAggregate, error) {
	aggs, err := s.demands.AggregateProducts(ctx, userID)
	if err != nil {
		s.log.Error("Aggregate product stats failed", "user_id", userID, "error", err)
		return nil, fetchProductsFailed(err)
	}
	return aggs, nil
}

func (s *productService) Summary(ctx context.Context, userID, productID string) (*types.ProductSummary, error) {
	records, err := s.demands.ListByProduct(ctx, userID, productID)
	if err != nil {
		s.log.Error("List product records failed", "user_id", userID, "product_id", productID, "error", err)
		return nil, fetchProductsFailed(err)
	}
	if len(records) == 0 {
		return nil, apierr.NotFound("product_not_found", "Product not found")
	}
	return summarize(productID, records)
}

// summarize expects records ordered by date. The name comes from the earliest
// inserted record, like the product listing.
func summarize(productID string, records []*types.Record) (*types.ProductSummary, error) {
	quantities := make(stats.Float64Data, 0, len(records))
	prices := make(stats.Float64Data, 0, len(records))
	first := records[0]
	for _, r := range records {
		quantities = append(quantities, r.Quantity)
		prices = append(prices, r.Price)
		if r.CreatedAt.Before(first.CreatedAt) {
			first = r
		}
	}

	total, err := quantities.Sum()
	if err != nil {
		return nil, err
	}
	mean, err := quantities.Mean()
	if err != nil {
		return nil, err
	}
	median, err := quantities.Median()
	if err != nil {
		return nil, err
	}
	meanPrice, err := prices.Mean()
	if err != nil {
		return nil, err
	}

	return &types.ProductSummary{
		ProductID:      productID,
		Name:           first.ProductName,
		Category:       types.ClassifyCategory(first.ProductName),
		Unit:           types.ProductUnit,
		Count:          len(records),
		TotalQuantity:  total,
		MeanQuantity:   mean,
		MedianQuantity: median,
		MeanPrice:      meanPrice,
		FirstDate:      records[0].Date.UTC(),
		LastDate:       records[len(records)-1].Date.UTC(),
	}, nil
}

func (s *productService) LastUpdated(ctx context.Context) (*LastUpdated, error) {
	out := &LastUpdated{Key: types.KeyProductsUpdated}
	m, err := s.metadata.Get(ctx, types.KeyProductsUpdated)
	if errors.Is(err, repos.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		s.log.Error("Read products marker failed", "error", err)
		return nil, apierr.Upstream("fetch_metadata_failed", "Failed to fetch metadata", err)
	}
	at := m.UpdatedAt.UTC()
	out.UpdatedAt = &at
	return out, nil
}
