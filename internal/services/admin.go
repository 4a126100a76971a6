package services

import (
	"context"

	"github.com/yungbote/pukpuk-backend/internal/clients/redis"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type AdminService interface {
	// ClearAll deletes every demand record in scope and drops the
	// products_updated marker. An empty scope is a no-op success.
	ClearAll(ctx context.Context, scope repos.Scope) (*ClearResult, error)
}

type ClearResult struct {
	DeletedCount  int64  `json:"deletedCount"`
	PreviousCount *int64 `json:"previousCount,omitempty"`
}

type adminService struct {
	log      *logger.Logger
	demands  repos.DemandRepo
	products *productsMarker
}

func NewAdminService(log *logger.Logger, demands repos.DemandRepo, metadata repos.MetadataRepo, cache redis.ProductCache) AdminService {
	serviceLog := log.With("service", "AdminService")
	return &adminService{
		log:      serviceLog,
		demands:  demands,
		products: newProductsMarker(serviceLog, metadata, cache),
	}
}

func clearFailed(err error) error {
	return apierr.Upstream("clear_failed", "Failed to clear all data", err).Detailed()
}

func (s *adminService) ClearAll(ctx context.Context, scope repos.Scope) (*ClearResult, error) {
	previous, err := s.demands.Count(ctx, scope)
	if err != nil {
		s.log.Error("Count demands before clear failed", "error", err)
		return nil, clearFailed(err)
	}
	if previous == 0 {
		return &ClearResult{DeletedCount: 0}, nil
	}

	deleted, err := s.demands.DeleteAll(ctx, scope)
	if err != nil {
		s.log.Error("Clear demands failed", "global", scope.Global(), "error", err)
		return nil, clearFailed(err)
	}
	// Not atomic with the delete above; a failure here leaves the marker stale.
	if err := s.products.cleared(ctx, scope); err != nil {
		s.log.Error("Delete products marker failed", "error", err)
		return nil, clearFailed(err)
	}

	s.log.Info("Cleared demand data", "deleted", deleted, "previous", previous, "global", scope.Global())
	return &ClearResult{DeletedCount: deleted, PreviousCount: &previous}, nil
}
