package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAgg(totalQty int) model.AggregationResult {
	return model.AggregationResult{
		TotalQuantity: totalQty,
		TotalValue:    decimal.RequireFromString("123.45"),
		TopSeller:     "MARIA",
		SolidsEarly:   totalQty,
		Unmapped:      []model.UnmappedForm{},
	}
}

func sampleItems(n int) []model.ReportItem {
	items := make([]model.ReportItem, n)
	for i := range items {
		items[i] = model.ReportItem{
			ID:       i,
			Form:     "CAPSULAS",
			Category: "CAPSULAS",
			Bucket:   model.Bucket7to8,
			Seller:   "MARIA",
			Amount:   decimal.NewFromInt(int64(10 * (i + 1))),
			Quantity: 1,
			IsMapped: true,
		}
	}
	return items
}

func TestUpsertInsertThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, "default", "2025-09-08", sampleAgg(3), sampleItems(3))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id == 0 {
		t.Fatal("id = 0")
	}

	gotID, payload, err := s.Get(ctx, "default", "2025-09-08")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotID != id {
		t.Errorf("get id = %d, want %d", gotID, id)
	}
	if len(payload) == 0 {
		t.Error("empty payload")
	}
}

func TestUpsertReplacesItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Upsert(ctx, "default", "2025-09-08", sampleAgg(5), sampleItems(5))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := s.Upsert(ctx, "default", "2025-09-08", sampleAgg(2), sampleItems(2))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Errorf("reprocessing created a new report: %d vs %d", id1, id2)
	}

	items, err := s.Items(ctx, id2)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	// full delete-then-insert: no residue from the first run
	if len(items) != 2 {
		t.Fatalf("persisted %d items, want 2", len(items))
	}
	for i, it := range items {
		if it.ID != i {
			t.Errorf("item %d has idx %d", i, it.ID)
		}
		if !it.Amount.Equal(decimal.NewFromInt(int64(10 * (i + 1)))) {
			t.Errorf("item %d amount = %s", i, it.Amount)
		}
	}
}

func TestUpsertTenantsAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	idA, err := s.Upsert(ctx, "farmacia-a", "2025-09-08", sampleAgg(1), sampleItems(1))
	if err != nil {
		t.Fatalf("tenant a: %v", err)
	}
	idB, err := s.Upsert(ctx, "farmacia-b", "2025-09-08", sampleAgg(1), sampleItems(1))
	if err != nil {
		t.Fatalf("tenant b: %v", err)
	}
	if idA == idB {
		t.Error("tenants shared a report row")
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.Get(context.Background(), "default", "1999-01-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
