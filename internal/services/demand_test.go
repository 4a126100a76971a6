package services

import (
	"context"
	"math"
	"testing"

	"github.com/yungbote/pukpuk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
)

func floatPtr(v float64) *float64 { return &v }

func TestDemandServiceCreateValidates(t *testing.T) {
	f := newFixture(t)
	svc := NewDemandService(f.log, f.demands, f.metadata, f.cache)
	ctx := context.Background()

	bad := []types.Input{
		{ProductName: "Garlic", Quantity: floatPtr(1)},
		{Date: "2024-01-01", ProductName: "  ", Quantity: floatPtr(1)},
		{Date: "2024-01-01", ProductName: "Garlic"},
		{Date: "2024-01-01", ProductName: "Garlic", Quantity: floatPtr(-1)},
		{Date: "2024-01-01", ProductName: "Garlic", Quantity: floatPtr(1), Price: floatPtr(-0.5)},
		{Date: "not a date", ProductName: "Garlic", Quantity: floatPtr(1)},
	}
	for i, in := range bad {
		if _, err := svc.Create(ctx, "u1", in); !apierr.Is(err, apierr.KindInvalid) {
			t.Fatalf("case %d: want invalid, got %v", i, err)
		}
	}

	rec, err := svc.Create(ctx, "u1", types.Input{Date: "2024-01-01T10:00:00Z", ProductName: " Garlic ", ProductID: strPtr(" "), Quantity: floatPtr(3)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" || rec.UserID != "u1" || rec.ProductName != "Garlic" || rec.ProductID != nil || rec.Unit != "kg" {
		t.Fatalf("Create: unexpected record %+v", rec)
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != "u1" {
		t.Fatalf("Create: cache invalidations %v", f.cache.invalidated)
	}
}

func TestDemandServiceOwnerScoping(t *testing.T) {
	f := newFixture(t)
	svc := NewDemandService(f.log, f.demands, f.metadata, f.cache)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", types.Input{Date: "2024-01-01", ProductName: "Garlic", ProductID: strPtr("p1"), Quantity: floatPtr(3)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, "u2", rec.ID); !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("Get other user: %v", err)
	}
	if _, err := svc.Update(ctx, "u2", rec.ID, types.Input{Date: "2024-01-02", ProductName: "X", Quantity: floatPtr(1)}); !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("Update other user: %v", err)
	}
	if err := svc.Delete(ctx, "u2", rec.ID); !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("Delete other user: %v", err)
	}

	updated, err := svc.Update(ctx, "u1", rec.ID, types.Input{Date: "2024-01-02", ProductName: "Rice", ProductID: strPtr("p2"), Quantity: floatPtr(5), Price: floatPtr(2)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Get(ctx, "u1", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ProductName != "Rice" || got.ProductKey() != "p2" || got.Quantity != 5 || got.Price != 2 || !got.Date.Equal(updated.Date) {
		t.Fatalf("Get after update: %+v", got)
	}

	if err := svc.Delete(ctx, "u1", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", rec.ID); !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("Delete twice: %v", err)
	}
}

func TestDemandServiceList(t *testing.T) {
	f := newFixture(t)
	svc := NewDemandService(f.log, f.demands, f.metadata, f.cache)
	ctx := context.Background()

	var seeded []*types.Record
	for i := 1; i <= 25; i++ {
		seeded = append(seeded, testutil.NewRecord("u1", "p1", "Garlic", testutil.Day(2024, 1, i), float64(i)))
	}
	seeded = append(seeded, testutil.NewRecord("u2", "p1", "Garlic", testutil.Day(2024, 1, 1), 99))
	f.seed(t, seeded...)

	page, err := svc.List(ctx, "u1", ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 25 || page.Page != 1 || page.PerPage != DefaultPerPage || len(page.Data) != DefaultPerPage {
		t.Fatalf("List defaults: total=%d page=%d perPage=%d rows=%d", page.Total, page.Page, page.PerPage, len(page.Data))
	}
	if page.Data[0].Quantity != 25 {
		t.Fatalf("List default order should be newest first, got %v", page.Data[0].Quantity)
	}

	page, err = svc.List(ctx, "u1", ListQuery{Page: 2, PerPage: 10, Sort: "quantity", Order: "asc"})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page.Data) != 10 || page.Data[0].Quantity != 11 {
		t.Fatalf("List page 2: rows=%d first=%v", len(page.Data), page.Data[0].Quantity)
	}

	page, err = svc.List(ctx, "u1", ListQuery{From: "2024-01-10", To: "2024-01-12", PerPage: 10000})
	if err != nil {
		t.Fatalf("List range: %v", err)
	}
	if page.Total != 3 || page.PerPage != MaxPerPage {
		t.Fatalf("List range: total=%d perPage=%d", page.Total, page.PerPage)
	}

	for _, q := range []ListQuery{{Sort: "userId"}, {Order: "sideways"}, {From: "yesterday-ish"}} {
		if _, err := svc.List(ctx, "u1", q); !apierr.Is(err, apierr.KindInvalid) {
			t.Fatalf("List %+v: want invalid, got %v", q, err)
		}
	}
}

func TestDemandServiceListRejectsOverflowingPage(t *testing.T) {
	f := newFixture(t)
	svc := NewDemandService(f.log, f.demands, f.metadata, f.cache)

	for _, q := range []ListQuery{
		{Page: math.MaxInt},
		{Page: math.MaxInt/10 + 1, PerPage: 10},
		{Page: math.MaxInt / 2},
	} {
		_, err := svc.List(context.Background(), "u1", q)
		if !apierr.Is(err, apierr.KindInvalid) {
			t.Fatalf("List page=%d perPage=%d: want invalid, got %v", q.Page, q.PerPage, err)
		}
	}
}
