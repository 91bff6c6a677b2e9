package model

import "github.com/shopspring/decimal"

// TimeBucket is one of the six fixed production windows.
type TimeBucket string

const (
	Bucket7to8   TimeBucket = "07:00 AS 08:00"
	Bucket10to13 TimeBucket = "10:00 AS 13:00"
	Bucket14     TimeBucket = "14:00"
	Bucket15     TimeBucket = "15:00"
	Bucket16to17 TimeBucket = "16:00 AS 17:00"
	BucketOther  TimeBucket = "OUTROS"
)

// Buckets returns the windows in report column order.
func Buckets() []TimeBucket {
	return []TimeBucket{Bucket7to8, Bucket10to13, Bucket14, Bucket15, Bucket16to17, BucketOther}
}

// Role is a semantic column role discovered in an input sheet.
type Role string

const (
	RoleForm     Role = "form"
	RoleReceipt  Role = "receiptId"
	RoleSequence Role = "sequence"
	RoleHour     Role = "hour"
	RoleSeller   Role = "seller"
	RoleAmount   Role = "amount"
	RoleQuantity Role = "quantity"
	RoleLane     Role = "lane"
)

// ColumnRoleMap binds roles to concrete header strings of one sheet.
type ColumnRoleMap map[Role]string

// MergedRecord is one reconciled prescription: control row hour/lane joined with
// the diary row sharing its (receipt, sequence) key. Never mutated after creation.
type MergedRecord struct {
	Form     string          `json:"form"`
	Bucket   TimeBucket      `json:"bucket"`
	Seller   string          `json:"seller"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity"`
	Lane     string          `json:"lane,omitempty"`
}

// ReportItem is a MergedRecord after category resolution, as persisted and returned.
type ReportItem struct {
	ID       int             `json:"id"`
	Form     string          `json:"form"`
	Category string          `json:"category"`
	Bucket   TimeBucket      `json:"bucket"`
	Seller   string          `json:"seller"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity"`
	Lane     string          `json:"lane,omitempty"`
	IsMapped bool            `json:"isMapped"`
}

// UnmappedForm is a distinct form text with no category mapping yet.
type UnmappedForm struct {
	Form        string `json:"form"`
	Occurrences int    `json:"occurrences"`
}

// PivotRow kinds.
const (
	RowHeader   = "header"
	RowCategory = "category"
	RowSubtotal = "subtotal"
	RowExtra    = "extra"
)

// PivotRow is one line of the category x bucket matrix.
type PivotRow struct {
	Kind  string             `json:"kind"`
	Label string             `json:"label"`
	Cells map[TimeBucket]int `json:"cells,omitempty"`
	Total int                `json:"total"`
}

// SellerStat is the per-seller rollup, ranked by total amount.
type SellerStat struct {
	Seller    string          `json:"seller"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	Days      int             `json:"days"`
	AvgPerDay decimal.Decimal `json:"avgPerDay"`
	AvgTicket decimal.Decimal `json:"avgTicket"`
}

// TopNItem is one kanban card: a category and its quantity within a bucket.
type TopNItem struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// AggregationResult is the full pivot report for one production date.
type AggregationResult struct {
	PivotRows     []PivotRow                `json:"pivotRows"`
	Sellers       []SellerStat              `json:"sellers"`
	TopSeller     string                    `json:"topSeller"`
	Hourly        map[TimeBucket]int        `json:"hourly"`
	Kanban        map[TimeBucket][]TopNItem `json:"kanban"`
	Unmapped      []UnmappedForm            `json:"unmapped"`
	TotalQuantity int                       `json:"totalQuantity"`
	TotalValue    decimal.Decimal           `json:"totalValue"`
	SolidsEarly   int                       `json:"solidsEarly"`
}
