package service

import (
	"sort"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

// Outcome is the resolution check result: Clean (proceed to aggregation) or
// Blocked with the unresolved forms. Suspension is a value, never an error —
// the caller persists the list, collects user mappings and resubmits.
type Outcome struct {
	Blocked     bool
	Unmapped    []model.UnmappedForm
	Suggestions map[string][]Suggestion
}

// CheckResolution runs the Checking state: every distinct normalized form across
// the batch must resolve against the category map before aggregation may start.
// The distinct-forms pre-pass doubles as the fast path on repeat submissions.
func CheckResolution(records []model.MergedRecord, categoryMap map[string]string) Outcome {
	counts := map[string]int{}
	for _, r := range records {
		if r.Form == "" {
			continue
		}
		counts[r.Form]++
	}

	var unmapped []model.UnmappedForm
	for form, n := range counts {
		if _, ok := Resolve(form, categoryMap); !ok {
			unmapped = append(unmapped, model.UnmappedForm{Form: form, Occurrences: n})
		}
	}
	if len(unmapped) == 0 {
		return Outcome{}
	}

	sort.Slice(unmapped, func(i, j int) bool {
		if unmapped[i].Occurrences != unmapped[j].Occurrences {
			return unmapped[i].Occurrences > unmapped[j].Occurrences
		}
		return unmapped[i].Form < unmapped[j].Form
	})

	sugg := make(map[string][]Suggestion, len(unmapped))
	for _, u := range unmapped {
		if s := Suggest(u.Form); len(s) > 0 {
			sugg[u.Form] = s
		}
	}
	return Outcome{Blocked: true, Unmapped: unmapped, Suggestions: sugg}
}
