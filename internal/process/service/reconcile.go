package service

import (
	"github.com/shopspring/decimal"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

// placeholder seller for control rows with no diary match
const noSeller = "—"

type diaryEntry struct {
	form   string
	seller string
	amount decimal.Decimal
	qty    int
}

func compositeKey(receipt, seq string) string {
	return NormalizeKey(receipt) + "|" + NormalizeKey(seq)
}

// Reconcile joins the control sheet against the diary sheet on the composite
// (receipt, sequence) key. The control sheet drives iteration; duplicate keys are
// skipped because appended correction rows must not double-count. Control rows
// with no diary counterpart still enter the batch with safe defaults.
func Reconcile(diary, control []map[string]string, dcols, ccols model.ColumnRoleMap) []model.MergedRecord {
	index := make(map[string]diaryEntry, len(diary))
	for _, row := range diary {
		key := compositeKey(row[dcols[model.RoleReceipt]], row[dcols[model.RoleSequence]])
		if key == "|" {
			continue
		}
		if _, ok := index[key]; ok {
			continue
		}
		qty := 1
		if col, ok := dcols[model.RoleQuantity]; ok {
			qty = ParseQuantity(row[col])
		}
		index[key] = diaryEntry{
			form:   NormalizeKey(row[dcols[model.RoleForm]]),
			seller: NormalizeKey(row[dcols[model.RoleSeller]]),
			amount: ParseAmount(row[dcols[model.RoleAmount]]),
			qty:    qty,
		}
	}

	seen := make(map[string]bool, len(control))
	out := make([]model.MergedRecord, 0, len(control))
	for _, row := range control {
		key := compositeKey(row[ccols[model.RoleReceipt]], row[ccols[model.RoleSequence]])
		if key == "|" || seen[key] {
			continue
		}
		seen[key] = true

		rec := model.MergedRecord{
			Bucket:   BucketForHour(row[ccols[model.RoleHour]]),
			Seller:   noSeller,
			Amount:   decimal.Zero,
			Quantity: 1,
		}
		if col, ok := ccols[model.RoleLane]; ok {
			rec.Lane = NormalizeKey(row[col])
		}
		if d, ok := index[key]; ok {
			rec.Form = d.form
			rec.Amount = d.amount
			rec.Quantity = d.qty
			if d.seller != "" {
				rec.Seller = d.seller
			}
		}
		out = append(out, rec)
	}
	return out
}
