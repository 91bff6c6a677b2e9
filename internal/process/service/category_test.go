package service

import "testing"

func TestBuildCategoryMapOverrides(t *testing.T) {
	m := BuildCategoryMap(map[string]string{
		"cápsula vegana": "CAPSULAS",
		"CREME":          "POMADAS", // override beats the default
	})

	if c, ok := Resolve("CAPSULA VEGANA", m); !ok || c != CatCapsulas {
		t.Errorf("override lookup = (%q, %v)", c, ok)
	}
	if c, _ := Resolve("CREME", m); c != CatPomadas {
		t.Errorf("override did not win over default: %q", c)
	}
	if c, ok := Resolve("XAROPE", m); !ok || c != CatXaropes {
		t.Errorf("default lookup = (%q, %v)", c, ok)
	}
	if _, ok := Resolve("FORMA DESCONHECIDA", m); ok {
		t.Error("unknown form resolved unexpectedly")
	}
}

func TestBuildCategoryMapDoesNotMutateDefaults(t *testing.T) {
	BuildCategoryMap(map[string]string{"CREME": "GEL"})
	m := BuildCategoryMap(nil)
	if c, _ := Resolve("CREME", m); c != CatCremes {
		t.Errorf("defaults leaked a previous override: %q", c)
	}
}

func TestSuggestKeywordBeatsSimilarity(t *testing.T) {
	got := Suggest("cápsulas veganas 500mg")
	if len(got) == 0 {
		t.Fatal("no suggestions")
	}
	if got[0].Category != CatCapsulas {
		t.Errorf("top suggestion = %q, want %q", got[0].Category, CatCapsulas)
	}
	if got[0].Source != "keyword" {
		t.Errorf("top source = %q, want keyword", got[0].Source)
	}
	if got[0].Confidence < KeywordConfidenceMin || got[0].Confidence > KeywordConfidenceMax {
		t.Errorf("keyword confidence %v out of band", got[0].Confidence)
	}
}

func TestSuggestRankingAndLimit(t *testing.T) {
	got := Suggest("pomada dermatológica")
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("got %d suggestions, want 1..3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("suggestions not sorted: %v", got)
		}
	}
	if got[0].Category != CatPomadas {
		t.Errorf("top suggestion = %q, want %q", got[0].Category, CatPomadas)
	}
}

func TestSuggestSimilarityCappedBelowKeyword(t *testing.T) {
	// no keyword hit: pure similarity must stay below the keyword band
	got := Suggest("XAROPS") // typo for XAROPES
	for _, s := range got {
		if s.Source != "keyword" && s.Confidence >= KeywordConfidenceMin {
			t.Errorf("similarity suggestion %v reached keyword band", s)
		}
	}
}

func TestSuggestEmptyForm(t *testing.T) {
	if got := Suggest("   "); got != nil {
		t.Errorf("Suggest(blank) = %v, want nil", got)
	}
}
