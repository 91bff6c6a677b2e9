// Package report persists one aggregated production report per (tenant, date).
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

var ErrNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant       TEXT NOT NULL,
	date         TEXT NOT NULL,
	total_qty    INTEGER NOT NULL,
	total_value  TEXT NOT NULL,
	solids_early INTEGER NOT NULL,
	top_seller   TEXT NOT NULL,
	payload      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	UNIQUE(tenant, date)
);
CREATE TABLE IF NOT EXISTS report_items (
	report_id INTEGER NOT NULL REFERENCES reports(id),
	idx       INTEGER NOT NULL,
	form      TEXT NOT NULL,
	category  TEXT NOT NULL,
	bucket    TEXT NOT NULL,
	seller    TEXT NOT NULL,
	amount    TEXT NOT NULL,
	quantity  INTEGER NOT NULL,
	lane      TEXT NOT NULL DEFAULT '',
	is_mapped INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_report_items_report ON report_items(report_id);
`

type Store struct {
	db *sql.DB
}

// Open creates the sqlite file (and its directory) if needed and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("report: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("report: open: %w", err)
	}
	// the delete-then-insert upsert must not interleave between submissions
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert replaces the stored report for (tenant, date): the header is updated in
// place, child items are deleted and re-inserted so the persisted set always
// matches the latest aggregation exactly. Runs in one transaction.
func (s *Store) Upsert(ctx context.Context, tenant, date string, agg model.AggregationResult, items []model.ReportItem) (int64, error) {
	payload, err := json.Marshal(agg)
	if err != nil {
		return 0, fmt.Errorf("report: encode payload: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("report: begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM reports WHERE tenant=? AND date=?`, tenant, date).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE reports SET total_qty=?, total_value=?, solids_early=?, top_seller=?, payload=?, updated_at=?
			WHERE id=?`,
			agg.TotalQuantity, agg.TotalValue.String(), agg.SolidsEarly, agg.TopSeller, string(payload), now, id)
		if err != nil {
			return 0, fmt.Errorf("report: update header: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM report_items WHERE report_id=?`, id); err != nil {
			return 0, fmt.Errorf("report: clear items: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		res, ierr := tx.ExecContext(ctx, `
			INSERT INTO reports (tenant, date, total_qty, total_value, solids_early, top_seller, payload, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tenant, date, agg.TotalQuantity, agg.TotalValue.String(), agg.SolidsEarly, agg.TopSeller, string(payload), now, now)
		if ierr != nil {
			return 0, fmt.Errorf("report: insert header: %w", ierr)
		}
		if id, ierr = res.LastInsertId(); ierr != nil {
			return 0, fmt.Errorf("report: insert header id: %w", ierr)
		}
	default:
		return 0, fmt.Errorf("report: lookup: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_items (report_id, idx, form, category, bucket, seller, amount, quantity, lane, is_mapped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("report: prepare items: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		mapped := 0
		if it.IsMapped {
			mapped = 1
		}
		if _, err := stmt.ExecContext(ctx, id, it.ID, it.Form, it.Category, string(it.Bucket), it.Seller, it.Amount.String(), it.Quantity, it.Lane, mapped); err != nil {
			return 0, fmt.Errorf("report: insert item %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("report: commit: %w", err)
	}
	return id, nil
}

// Get returns the persisted report id and denormalized payload for redisplay.
func (s *Store) Get(ctx context.Context, tenant, date string) (int64, json.RawMessage, error) {
	var (
		id      int64
		payload string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, payload FROM reports WHERE tenant=? AND date=?`, tenant, date).Scan(&id, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("report: get: %w", err)
	}
	return id, json.RawMessage(payload), nil
}

// Items returns the persisted child rows for one report, in insertion order.
func (s *Store) Items(ctx context.Context, reportID int64) ([]model.ReportItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, form, category, bucket, seller, amount, quantity, lane, is_mapped
		FROM report_items WHERE report_id=? ORDER BY idx`, reportID)
	if err != nil {
		return nil, fmt.Errorf("report: items: %w", err)
	}
	defer rows.Close()

	var out []model.ReportItem
	for rows.Next() {
		var (
			it     model.ReportItem
			bucket string
			amount string
			mapped int
		)
		if err := rows.Scan(&it.ID, &it.Form, &it.Category, &bucket, &it.Seller, &amount, &it.Quantity, &it.Lane, &mapped); err != nil {
			return nil, fmt.Errorf("report: scan item: %w", err)
		}
		it.Bucket = model.TimeBucket(bucket)
		it.Amount = storedDecimal(amount)
		it.IsMapped = mapped != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

func storedDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
