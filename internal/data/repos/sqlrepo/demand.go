package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type demandRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDemandRepo(db *gorm.DB, baseLog *logger.Logger) repos.DemandRepo {
	repoLog := baseLog.With("repo", "DemandRepo", "backend", "sql")
	return &demandRepo{db: db, log: repoLog}
}

func (r *demandRepo) Create(ctx context.Context, records []*types.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&records, 500).Error; err != nil {
		return fmt.Errorf("insert demands: %w", err)
	}
	return nil
}

func (r *demandRepo) GetByID(ctx context.Context, userID, id string) (*types.Record, error) {
	var rec types.Record
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get demand: %w", err)
	}
	return &rec, nil
}

func (r *demandRepo) List(ctx context.Context, userID string, filter repos.ListFilter) ([]*types.Record, int64, error) {
	q := r.db.WithContext(ctx).Model(&types.Record{}).Where("user_id = ?", userID)
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count demands: %w", err)
	}

	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	order := fmt.Sprintf("%s %s, id ASC", repos.SortColumns[filter.SortOrDefault()], dir)
	q = q.Order(order).Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var out []*types.Record
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list demands: %w", err)
	}
	return out, total, nil
}

func (r *demandRepo) ListByProduct(ctx context.Context, userID, productID string) ([]*types.Record, error) {
	var out []*types.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("date ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list demands for product: %w", err)
	}
	return out, nil
}

func (r *demandRepo) Update(ctx context.Context, record *types.Record) error {
	res := r.db.WithContext(ctx).
		Model(&types.Record{}).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Select("date", "product_name", "product_id", "quantity", "price", "unit", "updated_at").
		Updates(record)
	if res.Error != nil {
		return fmt.Errorf("update demand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *demandRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Record{})
	if res.Error != nil {
		return fmt.Errorf("delete demand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *demandRepo) scoped(ctx context.Context, scope repos.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&types.Record{})
	if scope.Global() {
		return q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	return q.Where("user_id = ?", scope.UserID)
}

func (r *demandRepo) Count(ctx context.Context, scope repos.Scope) (int64, error) {
	var n int64
	if err := r.scoped(ctx, scope).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count demands: %w", err)
	}
	return n, nil
}

func (r *demandRepo) DeleteAll(ctx context.Context, scope repos.Scope) (int64, error) {
	res := r.scoped(ctx, scope).Delete(&types.Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete demands: %w", res.Error)
	}
	r.log.Info("Deleted demand records", "deleted", res.RowsAffected, "global", scope.Global())
	return res.RowsAffected, nil
}

type productRow struct {
	ProductID   string
	ProductName string
	Date        time.Time
}

// AggregateProducts folds an insertion-ordered scan so the first row of each
// product supplies its name, matching the document store's $first.
func (r *demandRepo) AggregateProducts(ctx context.Context, userID string) ([]*types.ProductAggregate, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).
		Model(&types.Record{}).
		Select("product_id, product_name, date").
		Where("user_id = ? AND product_id IS NOT NULL AND product_id <> ''", userID).
		Order("created_at ASC, id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate products: %w", err)
	}

	byID := make(map[string]*types.ProductAggregate)
	out := make([]*types.ProductAggregate, 0)
	for _, row := range rows {
		agg, ok := byID[row.ProductID]
		if !ok {
			agg = &types.ProductAggregate{
				Product: types.Product{
					ID:       row.ProductID,
					Name:     row.ProductName,
					Category: types.ClassifyCategory(row.ProductName),
					Unit:     types.ProductUnit,
				},
			}
			byID[row.ProductID] = agg
			out = append(out, agg)
		}
		agg.Count++
		if row.Date.After(agg.LastUpdated) {
			agg.LastUpdated = row.Date.UTC()
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
