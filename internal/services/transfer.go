package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/yungbote/pukpuk-backend/internal/clients/redis"
	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

// TransferService moves a user's demand records in and out as CSV with the
// header date,productName,productId,quantity,price,unit.
type TransferService interface {
	Import(ctx context.Context, userID string, r io.Reader) (int, error)
	Export(ctx context.Context, userID string, w io.Writer) (int, error)
}

type csvRow struct {
	Date        string `csv:"date"`
	ProductName string `csv:"productName"`
	ProductID   string `csv:"productId"`
	Quantity    string `csv:"quantity"`
	Price       string `csv:"price"`
	Unit        string `csv:"unit"`
}

type transferService struct {
	log      *logger.Logger
	demands  repos.DemandRepo
	products *productsMarker
}

func NewTransferService(log *logger.Logger, demands repos.DemandRepo, metadata repos.MetadataRepo, cache redis.ProductCache) TransferService {
	serviceLog := log.With("service", "TransferService")
	return &transferService{
		log:      serviceLog,
		demands:  demands,
		products: newProductsMarker(serviceLog, metadata, cache),
	}
}

func (s *transferService) Import(ctx context.Context, userID string, r io.Reader) (int, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return 0, nil
		}
		return 0, apierr.New(apierr.KindInvalid, "invalid_csv", "Could not read CSV: "+err.Error(), err)
	}

	now := time.Now().UTC()
	records := make([]*types.Record, 0, len(rows))
	for i, row := range rows {
		in, err := row.input()
		if err == nil {
			rec := &types.Record{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
			err = in.Apply(rec)
			records = append(records, rec)
		}
		if err != nil {
			// Line 1 is the header.
			return 0, apierr.New(apierr.KindInvalid, "invalid_csv_row", fmt.Sprintf("line %d: %v", i+2, err), err)
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := s.demands.Create(ctx, records); err != nil {
		s.log.Error("Import demands failed", "user_id", userID, "rows", len(records), "error", err)
		return 0, apierr.Upstream("import_failed", "Failed to import demand records", err)
	}
	s.products.changed(ctx, userID)
	s.log.Info("Imported demand records", "user_id", userID, "rows", len(records))
	return len(records), nil
}

func (row *csvRow) input() (types.Input, error) {
	in := types.Input{
		Date:        row.Date,
		ProductName: row.ProductName,
		Unit:        row.Unit,
	}
	if id := strings.TrimSpace(row.ProductID); id != "" {
		in.ProductID = &id
	}
	if q := strings.TrimSpace(row.Quantity); q != "" {
		v, err := cast.ToFloat64E(q)
		if err != nil {
			return in, &types.ValidationError{Field: "quantity", Reason: "is not a number"}
		}
		in.Quantity = &v
	}
	if p := strings.TrimSpace(row.Price); p != "" {
		v, err := cast.ToFloat64E(p)
		if err != nil {
			return in, &types.ValidationError{Field: "price", Reason: "is not a number"}
		}
		in.Price = &v
	}
	return in, nil
}

func (s *transferService) Export(ctx context.Context, userID string, w io.Writer) (int, error) {
	records, _, err := s.demands.List(ctx, userID, repos.ListFilter{Sort: repos.SortDate})
	if err != nil {
		s.log.Error("Export demands failed", "user_id", userID, "error", err)
		return 0, apierr.Upstream("export_failed", "Failed to export demand records", err)
	}

	rows := make([]*csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &csvRow{
			Date:        rec.Date.UTC().Format(time.RFC3339),
			ProductName: rec.ProductName,
			ProductID:   rec.ProductKey(),
			Quantity:    cast.ToString(rec.Quantity),
			Price:       cast.ToString(rec.Price),
			Unit:        rec.Unit,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(rows), nil
}
