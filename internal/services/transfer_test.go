package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/platform/apierr"
)

const importCSV = `date,productName,productId,quantity,price,unit
2024-01-01,Garlic,p1,3,12.5,kg
2024/01/02,Rice,p2,10,,
01/03/2024,Loose carrots,,2.5,1,bunch
`

func TestImportAndExport(t *testing.T) {
	f := newFixture(t)
	svc := NewTransferService(f.log, f.demands, f.metadata, f.cache)
	ctx := context.Background()

	n, err := svc.Import(ctx, "u1", strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("Import: want 3 rows, got %d", n)
	}
	total, err := f.demands.Count(ctx, repos.ForUser("u1"))
	if err != nil || total != 3 {
		t.Fatalf("Count after import: %d %v", total, err)
	}

	var buf bytes.Buffer
	n, err = svc.Export(ctx, "u1", &buf)
	if err != nil || n != 3 {
		t.Fatalf("Export: %d %v", n, err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Export lines: %q", buf.String())
	}
	if lines[0] != "date,productName,productId,quantity,price,unit" {
		t.Fatalf("Export header: %q", lines[0])
	}
	if lines[1] != "2024-01-01T00:00:00Z,Garlic,p1,3,12.5,kg" {
		t.Fatalf("Export first row: %q", lines[1])
	}
	if lines[2] != "2024-01-02T00:00:00Z,Rice,p2,10,0,kg" {
		t.Fatalf("Export second row: %q", lines[2])
	}

	var other bytes.Buffer
	if n, err := svc.Export(ctx, "u2", &other); err != nil || n != 0 {
		t.Fatalf("Export other user: %d %v", n, err)
	}
}

func TestImportRejectsWholeFileOnBadRow(t *testing.T) {
	f := newFixture(t)
	svc := NewTransferService(f.log, f.demands, f.metadata, f.cache)
	ctx := context.Background()

	bad := "date,productName,productId,quantity,price,unit\n2024-01-01,Garlic,p1,3,1,kg\n2024-01-02,Rice,p2,-4,1,kg\n"
	_, err := svc.Import(ctx, "u1", strings.NewReader(bad))
	ae, ok := apierr.As(err)
	if !ok || ae.Kind != apierr.KindInvalid || !strings.Contains(ae.Message, "line 3") {
		t.Fatalf("Import bad row: %#v", err)
	}
	total, err := f.demands.Count(ctx, repos.AllUsers())
	if err != nil || total != 0 {
		t.Fatalf("bad import inserted rows: %d %v", total, err)
	}

	_, err = svc.Import(ctx, "u1", strings.NewReader("date,productName,quantity\n2024-01-01,Garlic,lots\n"))
	if !apierr.Is(err, apierr.KindInvalid) {
		t.Fatalf("Import non-numeric: %v", err)
	}

	n, err := svc.Import(ctx, "u1", strings.NewReader(""))
	if err != nil || n != 0 {
		t.Fatalf("Import empty: %d %v", n, err)
	}
}
