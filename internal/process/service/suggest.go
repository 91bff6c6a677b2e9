package service

import (
	"sort"
	"strings"
)

// Confidence tuning. These values were settled on the floor's real data; keep them
// as constants rather than re-deriving new ones.
const (
	// keyword hits are high-confidence, bounded to this band
	KeywordConfidenceMin = 0.80
	KeywordConfidenceMax = 0.95
	// label similarity never outranks a keyword hit
	LabelConfidenceCap = 0.79
	// a suggestion at or above this could be applied without asking; the
	// pipeline never does — resolution stays with the user
	AutoApplyThreshold = 0.70
	// floor below which a similarity suggestion is noise
	minSuggestScore = 0.30

	maxSuggestions = 3
)

// Suggestion is one ranked category candidate for an unmapped form.
type Suggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"` // keyword | label | member
}

// categoryKeywords: curated substring -> category table, strongest signal first.
var categoryKeywords = []struct {
	kw       string
	category string
	conf     float64
}{
	{"CAPSULA GASTRO", CatCapsulasGastro, 0.95},
	{"GASTRO", CatCapsulasGastro, 0.90},
	{"CAPSULA", CatCapsulas, 0.95},
	{"CAPS", CatCapsulas, 0.85},
	{"SACHE", CatSaches, 0.90},
	{"MATERIA PRIMA", CatMateriaPrima, 0.90},
	{"CREME", CatCremes, 0.90},
	{"POMADA", CatPomadas, 0.90},
	{"GEL", CatGel, 0.85},
	{"LOCAO", CatLocao, 0.90},
	{"SHAMPOO", CatShampoo, 0.90},
	{"XAMPU", CatShampoo, 0.85},
	{"SOLUCAO", CatSolucoes, 0.90},
	{"SUSPENSAO", CatSolucoes, 0.85},
	{"XAROPE", CatXaropes, 0.90},
	{"GOTA", CatGotas, 0.85},
	{"HOMEOPAT", CatHomeopatia, 0.90},
	{"GLOBULO", CatHomeopatia, 0.85},
	{"FLORAL", CatFloral, 0.90},
	{"VETERINAR", CatVeterinaria, 0.85},
	{"PET", CatVeterinaria, 0.80},
}

// categoryLabels: canonical category -> display label shown to the user. Some
// labels are composite; their comma-separated members are scored individually.
var categoryLabels = map[string]string{
	CatCapsulas:       "CAPSULAS",
	CatCapsulasGastro: "CAPSULAS GASTRO, CAPSULAS VEGANAS",
	CatSaches:         "SACHES",
	CatMateriaPrima:   "MATERIA PRIMA",
	CatCremes:         "CREMES",
	CatGel:            "GEL",
	CatLocao:          "LOCAO",
	CatPomadas:        "POMADAS",
	CatShampoo:        "SHAMPOO",
	CatSolucoes:       "SOLUCOES, SUSPENSOES",
	CatXaropes:        "XAROPES",
	CatGotas:          "GOTAS",
	CatHomeopatia:     "HOMEOPATIA",
	CatFloral:         "FLORAL, ESSENCIAS FLORAIS",
	CatVeterinaria:    "VETERINARIA, MANIPULADOS PET",
	CatOutros:         "OUTROS",
}

// Suggest ranks candidate categories for a form with no mapping. Advisory only:
// the resolution workflow shows these, the user decides.
func Suggest(form string) []Suggestion {
	nf := NormalizeKey(form)
	if nf == "" {
		return nil
	}

	best := map[string]Suggestion{}
	add := func(s Suggestion) {
		if ex, ok := best[s.Category]; !ok || s.Confidence > ex.Confidence {
			best[s.Category] = s
		}
	}

	// (a) exact keyword containment
	for _, k := range categoryKeywords {
		if strings.Contains(nf, k.kw) {
			conf := k.conf
			if conf < KeywordConfidenceMin {
				conf = KeywordConfidenceMin
			}
			if conf > KeywordConfidenceMax {
				conf = KeywordConfidenceMax
			}
			add(Suggestion{Category: k.category, Confidence: conf, Source: "keyword"})
		}
	}

	// (b) similarity against the whole display label, (c) against its members
	for cat, label := range categoryLabels {
		if s := labelScore(nf, label); s >= minSuggestScore {
			add(Suggestion{Category: cat, Confidence: s, Source: "label"})
		}
		members := strings.Split(label, ",")
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			if s := labelScore(nf, strings.TrimSpace(m)); s >= minSuggestScore {
				add(Suggestion{Category: cat, Confidence: s, Source: "member"})
			}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// labelScore blends containment with Damerau similarity, capped below keyword
// confidence so fuzzy never outranks a curated rule.
func labelScore(form, label string) float64 {
	if form == "" || label == "" {
		return 0
	}
	s := similarity(form, label)
	if strings.Contains(label, form) || strings.Contains(form, label) {
		if s < 0.60 {
			s = 0.60
		}
	}
	s *= LabelConfidenceCap
	if s > LabelConfidenceCap {
		s = LabelConfidenceCap
	}
	return s
}
