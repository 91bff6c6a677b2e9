package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

// pivot layout: fixed group order, fixed category order inside each group.
type pivotGroup struct {
	name       string
	categories []string
}

var pivotGroups = []pivotGroup{
	{"SOLIDOS", []string{CatCapsulas, CatCapsulasGastro, CatSaches, CatMateriaPrima}},
	{"DERMATOLOGICOS", []string{CatCremes, CatGel, CatLocao, CatPomadas, CatShampoo}},
	{"LIQUIDOS", []string{CatSolucoes, CatXaropes, CatGotas}},
	{"DIVERSOS", []string{CatHomeopatia, CatFloral, CatVeterinaria, CatOutros}},
}

// SolidsEarlyLabel is the derived row after the SOLIDOS subtotal: everything
// produced before the late window still makes the same-day shipping cutoff.
const SolidsEarlyLabel = "SOLIDOS ATE 15:00"

const kanbanTopN = 12

// Aggregate builds the full pivot report from fully-resolved records. Records
// whose form still has no mapping are tallied under OUTROS and reported in
// Unmapped; the resolution gate means that list is empty in practice.
func Aggregate(records []model.MergedRecord, categoryMap map[string]string) model.AggregationResult {
	matrix := map[string]map[model.TimeBucket]int{}
	unmappedCounts := map[string]int{}

	type sellerAcc struct {
		qty    int
		amount decimal.Decimal
		order  int
	}
	sellers := map[string]*sellerAcc{}

	hourly := map[model.TimeBucket]int{}
	for _, b := range model.Buckets() {
		hourly[b] = 0
	}

	totalQty := 0
	totalValue := decimal.Zero

	for _, r := range records {
		cat, ok := Resolve(r.Form, categoryMap)
		if !ok {
			cat = CatOutros
			if r.Form != "" {
				unmappedCounts[r.Form]++
			}
		}
		if matrix[cat] == nil {
			matrix[cat] = map[model.TimeBucket]int{}
		}
		matrix[cat][r.Bucket] += r.Quantity
		hourly[r.Bucket] += r.Quantity
		totalQty += r.Quantity
		totalValue = totalValue.Add(r.Amount)

		acc, ok := sellers[r.Seller]
		if !ok {
			acc = &sellerAcc{order: len(sellers)}
			sellers[r.Seller] = acc
		}
		acc.qty += r.Quantity
		acc.amount = acc.amount.Add(r.Amount)
	}

	// categories introduced by overrides that the fixed layout does not know
	// still need a home, or the grand total would not add up
	known := map[string]bool{}
	for _, g := range pivotGroups {
		for _, c := range g.categories {
			known[c] = true
		}
	}
	var extras []string
	for cat := range matrix {
		if !known[cat] {
			extras = append(extras, cat)
		}
	}
	sort.Strings(extras)

	groups := pivotGroups
	if len(extras) > 0 {
		groups = append(append([]pivotGroup{}, pivotGroups...), pivotGroup{"DEMAIS", extras})
	}

	var rows []model.PivotRow
	solidsEarly := 0
	for _, g := range groups {
		rows = append(rows, model.PivotRow{Kind: model.RowHeader, Label: g.name})

		sub := map[model.TimeBucket]int{}
		subTotal := 0
		for _, cat := range g.categories {
			cells := map[model.TimeBucket]int{}
			total := 0
			for _, b := range model.Buckets() {
				q := matrix[cat][b]
				cells[b] = q
				sub[b] += q
				total += q
			}
			subTotal += total
			rows = append(rows, model.PivotRow{Kind: model.RowCategory, Label: cat, Cells: cells, Total: total})
		}

		subCells := map[model.TimeBucket]int{}
		for _, b := range model.Buckets() {
			subCells[b] = sub[b]
		}
		rows = append(rows, model.PivotRow{Kind: model.RowSubtotal, Label: "TOTAL " + g.name, Cells: subCells, Total: subTotal})

		if g.name == "SOLIDOS" {
			earlyCells := map[model.TimeBucket]int{}
			early := 0
			for _, b := range model.Buckets() {
				if b == model.Bucket16to17 {
					earlyCells[b] = 0
					continue
				}
				earlyCells[b] = sub[b]
				early += sub[b]
			}
			solidsEarly = early
			rows = append(rows, model.PivotRow{Kind: model.RowExtra, Label: SolidsEarlyLabel, Cells: earlyCells, Total: early})
		}
	}

	// seller rollup, ranked by amount; ties keep first-encountered order
	names := make([]string, 0, len(sellers))
	for name := range sellers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := sellers[names[i]], sellers[names[j]]
		if !a.amount.Equal(b.amount) {
			return a.amount.GreaterThan(b.amount)
		}
		return a.order < b.order
	})

	stats := make([]model.SellerStat, 0, len(names))
	for _, name := range names {
		acc := sellers[name]
		st := model.SellerStat{
			Seller:   name,
			Quantity: acc.qty,
			Amount:   acc.amount,
			Days:     1, // one submission covers one production date
		}
		st.AvgPerDay = acc.amount.DivRound(decimal.NewFromInt(int64(st.Days)), 2)
		if acc.qty > 0 {
			st.AvgTicket = acc.amount.DivRound(decimal.NewFromInt(int64(acc.qty)), 2)
		} else {
			st.AvgTicket = decimal.Zero
		}
		stats = append(stats, st)
	}
	topSeller := ""
	if len(stats) > 0 {
		topSeller = stats[0].Seller
	}

	// kanban: top-N categories per bucket
	kanban := map[model.TimeBucket][]model.TopNItem{}
	for _, b := range model.Buckets() {
		var items []model.TopNItem
		for cat, cells := range matrix {
			if q := cells[b]; q > 0 {
				items = append(items, model.TopNItem{Category: cat, Quantity: q})
			}
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Quantity != items[j].Quantity {
				return items[i].Quantity > items[j].Quantity
			}
			return items[i].Category < items[j].Category
		})
		if len(items) > kanbanTopN {
			items = items[:kanbanTopN]
		}
		kanban[b] = items
	}

	unmapped := make([]model.UnmappedForm, 0, len(unmappedCounts))
	for form, n := range unmappedCounts {
		unmapped = append(unmapped, model.UnmappedForm{Form: form, Occurrences: n})
	}
	sort.Slice(unmapped, func(i, j int) bool {
		if unmapped[i].Occurrences != unmapped[j].Occurrences {
			return unmapped[i].Occurrences > unmapped[j].Occurrences
		}
		return unmapped[i].Form < unmapped[j].Form
	})

	return model.AggregationResult{
		PivotRows:     rows,
		Sellers:       stats,
		TopSeller:     topSeller,
		Hourly:        hourly,
		Kanban:        kanban,
		Unmapped:      unmapped,
		TotalQuantity: totalQty,
		TotalValue:    totalValue,
		SolidsEarly:   solidsEarly,
	}
}
