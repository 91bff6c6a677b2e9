package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/fileio"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/report"
)

// ErrInvalidDate marks an unparseable production date.
var ErrInvalidDate = errors.New("invalid date")

// EmptyTableError is the structural "nothing to process" failure.
type EmptyTableError struct {
	Sheet string
}

func (e *EmptyTableError) Error() string { return e.Sheet + ": empty input table" }

// Input is one submission: both sheets, the production date, per-tenant category
// overrides and the check-only flag.
type Input struct {
	Diary     fileio.Table
	Control   fileio.Table
	Date      string
	Overrides map[string]string
	CheckOnly bool
	Tenant    string
}

// Output is the submission result. Blocked and check-only outcomes carry only
// the unmapped list; a clean run carries the full report and its persisted id.
type Output struct {
	Status      string                   `json:"status"`
	Date        string                   `json:"date,omitempty"`
	ReportID    int64                    `json:"reportId,omitempty"`
	Items       []model.ReportItem       `json:"items,omitempty"`
	Result      *model.AggregationResult `json:"result,omitempty"`
	Unmapped    []model.UnmappedForm     `json:"unmapped"`
	Suggestions map[string][]Suggestion  `json:"suggestions,omitempty"`
}

const (
	StatusOK      = "ok"
	StatusBlocked = "blocked"
)

var mandatoryDiary = []model.Role{model.RoleForm, model.RoleReceipt, model.RoleSequence}
var mandatoryControl = []model.Role{model.RoleReceipt, model.RoleSequence, model.RoleHour}

// Engine runs one tenant's one-date submission as a single synchronous unit:
// discovery, reconciliation, resolution check, aggregation, persistence.
type Engine struct {
	store  *report.Store
	logger zerolog.Logger
}

func NewEngine(store *report.Store, logger zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Process runs the pipeline. The Blocked outcome is a normal return value; only
// structural and persistence failures surface as errors.
func (e *Engine) Process(ctx context.Context, in Input) (*Output, error) {
	date, err := CanonicalDate(in.Date)
	if err != nil {
		return nil, err
	}
	tenant := in.Tenant
	if tenant == "" {
		tenant = "default"
	}

	if len(in.Diary.Rows) == 0 {
		return nil, &EmptyTableError{Sheet: "diary"}
	}
	if len(in.Control.Rows) == 0 {
		return nil, &EmptyTableError{Sheet: "control"}
	}

	dcols, err := DiscoverColumns(in.Diary.Headers, DiaryFallback, mandatoryDiary, "diary")
	if err != nil {
		return nil, err
	}
	ccols, err := DiscoverColumns(in.Control.Headers, ControlFallback, mandatoryControl, "control")
	if err != nil {
		return nil, err
	}

	records := Reconcile(in.Diary.Rows, in.Control.Rows, dcols, ccols)
	categoryMap := BuildCategoryMap(in.Overrides)

	check := CheckResolution(records, categoryMap)
	if in.CheckOnly {
		status := StatusOK
		if check.Blocked {
			status = StatusBlocked
		}
		return &Output{
			Status:      status,
			Date:        date,
			Unmapped:    emptyIfNil(check.Unmapped),
			Suggestions: check.Suggestions,
		}, nil
	}
	if check.Blocked {
		e.logger.Info().
			Str("tenant", tenant).
			Str("date", date).
			Int("unmapped", len(check.Unmapped)).
			Msg("submission blocked on unmapped forms")
		return &Output{
			Status:      StatusBlocked,
			Date:        date,
			Unmapped:    check.Unmapped,
			Suggestions: check.Suggestions,
		}, nil
	}

	agg := Aggregate(records, categoryMap)

	items := make([]model.ReportItem, len(records))
	for i, r := range records {
		cat, mapped := Resolve(r.Form, categoryMap)
		if !mapped {
			cat = CatOutros
		}
		items[i] = model.ReportItem{
			ID:       i,
			Form:     r.Form,
			Category: cat,
			Bucket:   r.Bucket,
			Seller:   r.Seller,
			Amount:   r.Amount,
			Quantity: r.Quantity,
			Lane:     r.Lane,
			IsMapped: mapped,
		}
	}

	id, err := e.store.Upsert(ctx, tenant, date, agg, items)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	e.logger.Info().
		Str("tenant", tenant).
		Str("date", date).
		Int64("report_id", id).
		Int("records", len(records)).
		Int("total_qty", agg.TotalQuantity).
		Str("top_seller", agg.TopSeller).
		Msg("report persisted")

	return &Output{
		Status:   StatusOK,
		Date:     date,
		ReportID: id,
		Items:    items,
		Result:   &agg,
		Unmapped: emptyIfNil(agg.Unmapped),
	}, nil
}

// Report fetches the persisted payload for redisplay.
func (e *Engine) Report(ctx context.Context, tenant, date string) (int64, json.RawMessage, error) {
	canonical, err := CanonicalDate(date)
	if err != nil {
		return 0, nil, err
	}
	if tenant == "" {
		tenant = "default"
	}
	return e.store.Get(ctx, tenant, canonical)
}

// CanonicalDate parses DD/MM/YYYY or YYYY-MM-DD and applies the weekend shift:
// nothing is produced on Sundays, so a Sunday submission belongs to the
// following Monday. Applied exactly once, before any key lookup or persistence.
func CanonicalDate(raw string) (string, error) {
	var (
		t   time.Time
		err error
	)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	if t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t.Format("2006-01-02"), nil
}

func emptyIfNil(u []model.UnmappedForm) []model.UnmappedForm {
	if u == nil {
		return []model.UnmappedForm{}
	}
	return u
}
