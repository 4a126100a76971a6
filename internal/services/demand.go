package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pukpuk-backend/internal/clients/redis"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 500
)

type DemandService interface {
	Create(ctx context.Context, userID string, in types.Input) (*types.Record, error)
	Get(ctx context.Context, userID, id string) (*types.Record, error)
	List(ctx context.Context, userID string, q ListQuery) (*DemandPage, error)
	Update(ctx context.Context, userID, id string, in types.Input) (*types.Record, error)
	Delete(ctx context.Context, userID, id string) error
}

// ListQuery is the raw paging and filter input of a demand listing.
type ListQuery struct {
	ProductID string
	From      string
	To        string
	Sort      string
	Order     string
	Page      int
	PerPage   int
}

type DemandPage struct {
	Data    []*types.Record `json:"data"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"perPage"`
}

type demandService struct {
	log      *logger.Logger
	demands  repos.DemandRepo
	products *productsMarker
}

func NewDemandService(log *logger.Logger, demands repos.DemandRepo, metadata repos.MetadataRepo, cache redis.ProductCache) DemandService {
	serviceLog := log.With("service", "DemandService")
	return &demandService{
		log:      serviceLog,
		demands:  demands,
		products: newProductsMarker(serviceLog, metadata, cache),
	}
}

func (s *demandService) Create(ctx context.Context, userID string, in types.Input) (*types.Record, error) {
	now := time.Now().UTC()
	rec := &types.Record{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := in.Apply(rec); err != nil {
		return nil, invalidInput(err)
	}
	if err := s.demands.Create(ctx, []*types.Record{rec}); err != nil {
		s.log.Error("Create demand failed", "user_id", userID, "error", err)
		return nil, apierr.Upstream("create_demand_failed", "Failed to create demand record", err)
	}
	s.products.changed(ctx, userID)
	return rec, nil
}

func (s *demandService) Get(ctx context.Context, userID, id string) (*types.Record, error) {
	rec, err := s.demands.GetByID(ctx, userID, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, demandNotFound()
	}
	if err != nil {
		s.log.Error("Get demand failed", "user_id", userID, "error", err)
		return nil, apierr.Upstream("fetch_demand_failed", "Failed to fetch demand record", err)
	}
	return rec, nil
}

func (s *demandService) List(ctx context.Context, userID string, q ListQuery) (*DemandPage, error) {
	filter, page, perPage, err := q.filter()
	if err != nil {
		return nil, err
	}
	rows, total, err := s.demands.List(ctx, userID, filter)
	if err != nil {
		s.log.Error("List demands failed", "user_id", userID, "error", err)
		return nil, apierr.Upstream("fetch_demands_failed", "Failed to fetch demand records", err)
	}
	return &DemandPage{Data: rows, Total: total, Page: page, PerPage: perPage}, nil
}

func (q ListQuery) filter() (repos.ListFilter, int, int, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page > math.MaxInt/perPage {
		return repos.ListFilter{}, 0, 0, apierr.Invalid("invalid_page", "Page out of range")
	}

	f := repos.ListFilter{
		ProductID: strings.TrimSpace(q.ProductID),
		Offset:    (page - 1) * perPage,
		Limit:     perPage,
		Desc:      true,
	}
	if sort := strings.TrimSpace(q.Sort); sort != "" {
		if _, ok := repos.SortColumns[sort]; !ok {
			return f, 0, 0, apierr.Invalid("invalid_sort", "Unsupported sort field: "+sort)
		}
		f.Sort = sort
	}
	switch strings.ToLower(strings.TrimSpace(q.Order)) {
	case "", "desc":
	case "asc":
		f.Desc = false
	default:
		return f, 0, 0, apierr.Invalid("invalid_order", "order must be asc or desc")
	}
	var err error
	if f.From, err = optionalDate(q.From); err != nil {
		return f, 0, 0, err
	}
	if f.To, err = optionalDate(q.To); err != nil {
		return f, 0, 0, err
	}
	return f, page, perPage, nil
}

func optionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := types.ParseDate(raw)
	if err != nil {
		return nil, invalidInput(err)
	}
	return &t, nil
}

func (s *demandService) Update(ctx context.Context, userID, id string, in types.Input) (*types.Record, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Apply(rec); err != nil {
		return nil, invalidInput(err)
	}
	rec.UpdatedAt = time.Now().UTC()

	err = s.demands.Update(ctx, rec)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, demandNotFound()
	}
	if err != nil {
		s.log.Error("Update demand failed", "user_id", userID, "error", err)
		return nil, apierr.Upstream("update_demand_failed", "Failed to update demand record", err)
	}
	s.products.changed(ctx, userID)
	return rec, nil
}

func (s *demandService) Delete(ctx context.Context, userID, id string) error {
	err := s.demands.Delete(ctx, userID, id)
	if errors.Is(err, repos.ErrNotFound) {
		return demandNotFound()
	}
	if err != nil {
		s.log.Error("Delete demand failed", "user_id", userID, "error", err)
		return apierr.Upstream("delete_demand_failed", "Failed to delete demand record", err)
	}
	s.products.changed(ctx, userID)
	return nil
}

func demandNotFound() error {
	return apierr.NotFound("demand_not_found", "Demand record not found")
}

func invalidInput(err error) error {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return apierr.New(apierr.KindInvalid, "invalid_"+ve.Field, ve.Error(), err)
	}
	return apierr.New(apierr.KindInvalid, "invalid_request", err.Error(), err)
}

// productsMarker records that a user's demand data changed: it bumps the
// products_updated marker and drops the user's cached product list. Both are
// best effort; the write that triggered them has already succeeded.
type productsMarker struct {
	log      *logger.Logger
	metadata repos.MetadataRepo
	cache    redis.ProductCache
}

func newProductsMarker(log *logger.Logger, metadata repos.MetadataRepo, cache redis.ProductCache) *productsMarker {
	if cache == nil {
		cache = redis.NewNoopProductCache()
	}
	return &productsMarker{log: log, metadata: metadata, cache: cache}
}

func (m *productsMarker) changed(ctx context.Context, userID string) {
	if err := m.metadata.Touch(ctx, types.KeyProductsUpdated, time.Now().UTC()); err != nil {
		m.log.Warn("Touch products marker failed", "error", err)
	}
	if err := m.cache.Invalidate(ctx, userID); err != nil {
		m.log.Warn("Invalidate product cache failed", "user_id", userID, "error", err)
	}
}

// cleared handles bulk deletion: the marker is removed rather than bumped.
func (m *productsMarker) cleared(ctx context.Context, scope repos.Scope) error {
	if err := m.metadata.Delete(ctx, types.KeyProductsUpdated); err != nil {
		return err
	}
	var err error
	if scope.Global() {
		err = m.cache.InvalidateAll(ctx)
	} else {
		err = m.cache.Invalidate(ctx, scope.UserID)
	}
	if err != nil {
		m.log.Warn("Invalidate product cache failed", "global", scope.Global(), "error", err)
	}
	return nil
}
