package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

func testRecords() []model.MergedRecord {
	return []model.MergedRecord{
		rec("CAPSULAS", model.Bucket7to8, "MARIA", "100,00", 2),
		rec("CAPSULAS", model.Bucket10to13, "MARIA", "50,00", 1),
		rec("SACHE", model.Bucket16to17, "ANA", "30,00", 3),
		rec("CREME", model.Bucket14, "ANA", "80,00", 1),
		rec("XAROPE", model.Bucket15, "MARIA", "20,00", 2),
	}
}

func findRow(rows []model.PivotRow, kind, label string) *model.PivotRow {
	for i := range rows {
		if rows[i].Kind == kind && rows[i].Label == label {
			return &rows[i]
		}
	}
	return nil
}

func TestAggregateSubtotalAdditivity(t *testing.T) {
	agg := Aggregate(testRecords(), BuildCategoryMap(nil))

	var leafTotal int
	subTotals := map[string]int{}
	groupOfLeaf := map[string]string{}
	currentGroup := ""
	for _, row := range agg.PivotRows {
		switch row.Kind {
		case model.RowHeader:
			currentGroup = row.Label
		case model.RowCategory:
			leafTotal += row.Total
			groupOfLeaf[row.Label] = currentGroup
			// row total must equal the sum of its six cells
			sum := 0
			for _, b := range model.Buckets() {
				sum += row.Cells[b]
			}
			if sum != row.Total {
				t.Errorf("leaf %q: cells sum %d != total %d", row.Label, sum, row.Total)
			}
		case model.RowSubtotal:
			subTotals[currentGroup] = row.Total
		}
	}

	// each subtotal equals the sum of its group's leaves
	for _, g := range pivotGroups {
		want := 0
		for _, row := range agg.PivotRows {
			if row.Kind == model.RowCategory && groupOfLeaf[row.Label] == g.name {
				want += row.Total
			}
		}
		if subTotals[g.name] != want {
			t.Errorf("subtotal %q = %d, want %d", g.name, subTotals[g.name], want)
		}
	}

	if leafTotal != agg.TotalQuantity {
		t.Errorf("grand total %d != sum of leaves %d", agg.TotalQuantity, leafTotal)
	}
	wantQty := 0
	for _, r := range testRecords() {
		wantQty += r.Quantity
	}
	if agg.TotalQuantity != wantQty {
		t.Errorf("grand total %d != sum of record quantities %d", agg.TotalQuantity, wantQty)
	}
}

func TestAggregateSolidsEarlyExcludesLateWindow(t *testing.T) {
	agg := Aggregate(testRecords(), BuildCategoryMap(nil))

	early := findRow(agg.PivotRows, model.RowExtra, SolidsEarlyLabel)
	if early == nil {
		t.Fatal("solids early row missing")
	}
	// SOLIDOS = 2+1 capsulas + 3 saches; the 3 saches ran in the late window
	if early.Total != 3 {
		t.Errorf("solids early = %d, want 3", early.Total)
	}
	if early.Cells[model.Bucket16to17] != 0 {
		t.Errorf("late window cell = %d, want 0", early.Cells[model.Bucket16to17])
	}
	if agg.SolidsEarly != early.Total {
		t.Errorf("SolidsEarly %d != row total %d", agg.SolidsEarly, early.Total)
	}
}

func TestAggregateSellerRollup(t *testing.T) {
	agg := Aggregate(testRecords(), BuildCategoryMap(nil))

	if len(agg.Sellers) != 2 {
		t.Fatalf("sellers = %d, want 2", len(agg.Sellers))
	}
	// MARIA: 170.00 across 5 units; ANA: 110.00 across 4 units
	if agg.Sellers[0].Seller != "MARIA" || agg.TopSeller != "MARIA" {
		t.Errorf("top seller = %q / %q, want MARIA", agg.Sellers[0].Seller, agg.TopSeller)
	}
	maria := agg.Sellers[0]
	if !maria.Amount.Equal(decimal.RequireFromString("170")) {
		t.Errorf("maria amount = %s", maria.Amount)
	}
	if maria.Quantity != 5 {
		t.Errorf("maria quantity = %d", maria.Quantity)
	}
	if !maria.AvgTicket.Equal(decimal.RequireFromString("34")) {
		t.Errorf("maria avg ticket = %s", maria.AvgTicket)
	}
	if maria.Days != 1 || !maria.AvgPerDay.Equal(maria.Amount) {
		t.Errorf("maria per-day rollup = %d / %s", maria.Days, maria.AvgPerDay)
	}
}

func TestAggregateTopSellerTieBreaksByEncounterOrder(t *testing.T) {
	records := []model.MergedRecord{
		rec("CAPSULAS", model.Bucket7to8, "BRUNA", "50", 1),
		rec("CAPSULAS", model.Bucket7to8, "ALICE", "50", 1),
	}
	agg := Aggregate(records, BuildCategoryMap(nil))
	if agg.TopSeller != "BRUNA" {
		t.Errorf("top seller = %q, want first-encountered BRUNA", agg.TopSeller)
	}
}

func TestAggregateHourlyAndKanban(t *testing.T) {
	agg := Aggregate(testRecords(), BuildCategoryMap(nil))

	if agg.Hourly[model.Bucket7to8] != 2 || agg.Hourly[model.Bucket16to17] != 3 {
		t.Errorf("hourly totals wrong: %v", agg.Hourly)
	}
	sum := 0
	for _, b := range model.Buckets() {
		sum += agg.Hourly[b]
	}
	if sum != agg.TotalQuantity {
		t.Errorf("hourly sum %d != grand total %d", sum, agg.TotalQuantity)
	}

	cards := agg.Kanban[model.Bucket16to17]
	if len(cards) != 1 || cards[0].Category != CatSaches || cards[0].Quantity != 3 {
		t.Errorf("kanban late window = %v", cards)
	}
}

func TestAggregateOverrideCategoryGetsAHome(t *testing.T) {
	m := BuildCategoryMap(map[string]string{"FORMA NOVA": "INJETAVEIS"})
	records := []model.MergedRecord{
		rec("FORMA NOVA", model.Bucket14, "MARIA", "10", 2),
	}
	agg := Aggregate(records, m)

	leaf := findRow(agg.PivotRows, model.RowCategory, "INJETAVEIS")
	if leaf == nil {
		t.Fatal("override category missing from pivot")
	}
	if leaf.Total != 2 || agg.TotalQuantity != 2 {
		t.Errorf("override category total = %d, grand = %d", leaf.Total, agg.TotalQuantity)
	}
	if findRow(agg.PivotRows, model.RowHeader, "DEMAIS") == nil {
		t.Error("DEMAIS section header missing")
	}
}

func TestAggregateTotalValue(t *testing.T) {
	agg := Aggregate(testRecords(), BuildCategoryMap(nil))
	if !agg.TotalValue.Equal(decimal.RequireFromString("280")) {
		t.Errorf("total value = %s, want 280", agg.TotalValue)
	}
}
