package repos

import (
	"context"
	"errors"
	"time"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
)

var ErrNotFound = errors.New("record not found")

// Scope narrows bulk operations to one user. The zero value spans every user.
type Scope struct {
	UserID string
}

func AllUsers() Scope { return Scope{} }

func ForUser(userID string) Scope { return Scope{UserID: userID} }

func (s Scope) Global() bool { return s.UserID == "" }

// Sortable fields, named as they appear on the wire.
const (
	SortDate        = "date"
	SortProductName = "productName"
	SortQuantity    = "quantity"
	SortPrice       = "price"
	SortCreatedAt   = "createdAt"
)

// SortColumns maps a wire sort name to its SQL column.
var SortColumns = map[string]string{
	SortDate:        "date",
	SortProductName: "product_name",
	SortQuantity:    "quantity",
	SortPrice:       "price",
	SortCreatedAt:   "created_at",
}

type ListFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Sort      string
	Desc      bool
	Offset    int
	// Limit <= 0 returns every matching row.
	Limit int
}

// SortOrDefault returns the requested sort field, falling back to date.
func (f ListFilter) SortOrDefault() string {
	if _, ok := SortColumns[f.Sort]; ok {
		return f.Sort
	}
	return SortDate
}

type DemandRepo interface {
	Create(ctx context.Context, records []*types.Record) error
	GetByID(ctx context.Context, userID, id string) (*types.Record, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*types.Record, int64, error)
	// ListByProduct returns one product's records oldest first.
	ListByProduct(ctx context.Context, userID, productID string) ([]*types.Record, error)
	Update(ctx context.Context, record *types.Record) error
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, scope Scope) (int64, error)
	DeleteAll(ctx context.Context, scope Scope) (int64, error)
	// AggregateProducts groups the user's classified records by productId,
	// ordered by product name.
	AggregateProducts(ctx context.Context, userID string) ([]*types.ProductAggregate, error)
}

type MetadataRepo interface {
	Get(ctx context.Context, key string) (*types.Metadata, error)
	Touch(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, key string) error
}
