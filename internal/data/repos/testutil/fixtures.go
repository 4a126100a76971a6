package testutil

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
)

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewRecord builds a record owned by userID. An empty productID leaves the
// record unclassified.
func NewRecord(userID, productID, name string, date time.Time, qty float64) *types.Record {
	now := time.Now().UTC()
	rec := &types.Record{
		ID:          uuid.NewString(),
		Date:        date.UTC(),
		ProductName: name,
		Quantity:    qty,
		Price:       1,
		Unit:        types.DefaultUnit,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if productID != "" {
		pid := productID
		rec.ProductID = &pid
	}
	return rec
}

// Sequenced stamps increasing CreatedAt values so insertion order is explicit.
func Sequenced(records ...*types.Record) []*types.Record {
	base := time.Now().UTC().Add(-time.Hour)
	for i, r := range records {
		r.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		r.UpdatedAt = r.CreatedAt
	}
	return records
}
