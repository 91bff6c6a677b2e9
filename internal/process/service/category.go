package service

// Canonical product categories, grouped the way the pivot report prints them.
const (
	CatCapsulas       = "CAPSULAS"
	CatCapsulasGastro = "CAPSULAS GASTRO"
	CatSaches         = "SACHES"
	CatMateriaPrima   = "MATERIA PRIMA"
	CatCremes         = "CREMES"
	CatGel            = "GEL"
	CatLocao          = "LOCAO"
	CatPomadas        = "POMADAS"
	CatShampoo        = "SHAMPOO"
	CatSolucoes       = "SOLUCOES"
	CatXaropes        = "XAROPES"
	CatGotas          = "GOTAS"
	CatHomeopatia     = "HOMEOPATIA"
	CatFloral         = "FLORAL"
	CatVeterinaria    = "VETERINARIA"
	CatOutros         = "OUTROS"
)

// defaultCategoryMap: normalized raw form text -> canonical category. This is the
// seed table; per-tenant overrides are overlaid per submission, never globally.
var defaultCategoryMap = map[string]string{
	"CAPSULA":           CatCapsulas,
	"CAPSULAS":          CatCapsulas,
	"CAPS":              CatCapsulas,
	"CAPSULA OLEOSA":    CatCapsulas,
	"CAPSULA GASTRO":    CatCapsulasGastro,
	"CAPSULAS GASTRO":   CatCapsulasGastro,
	"GASTRO RESISTENTE": CatCapsulasGastro,
	"SACHE":             CatSaches,
	"SACHES":            CatSaches,
	"MATERIA PRIMA":     CatMateriaPrima,
	"MP":                CatMateriaPrima,
	"CREME":             CatCremes,
	"CREMES":            CatCremes,
	"CREME FACIAL":      CatCremes,
	"GEL":               CatGel,
	"GEL CREME":         CatGel,
	"LOCAO":             CatLocao,
	"LOCAO CAPILAR":     CatLocao,
	"POMADA":            CatPomadas,
	"POMADAS":           CatPomadas,
	"SHAMPOO":           CatShampoo,
	"XAMPU":             CatShampoo,
	"SOLUCAO":           CatSolucoes,
	"SOLUCOES":          CatSolucoes,
	"SOLUCAO ORAL":      CatSolucoes,
	"SUSPENSAO":         CatSolucoes,
	"XAROPE":            CatXaropes,
	"XAROPES":           CatXaropes,
	"GOTA":              CatGotas,
	"GOTAS":             CatGotas,
	"HOMEOPATIA":        CatHomeopatia,
	"GLOBULOS":          CatHomeopatia,
	"FLORAL":            CatFloral,
	"FLORAIS":           CatFloral,
	"VETERINARIA":       CatVeterinaria,
	"VETERINARIO":       CatVeterinaria,
	"OUTROS":            CatOutros,
	"DIVERSOS":          CatOutros,
}

// BuildCategoryMap merges the static defaults with user overrides into one
// immutable-per-submission lookup table. Keys are normalized on the way in.
func BuildCategoryMap(overrides map[string]string) map[string]string {
	m := make(map[string]string, len(defaultCategoryMap)+len(overrides))
	for k, v := range defaultCategoryMap {
		m[k] = v
	}
	for k, v := range overrides {
		nk := NormalizeKey(k)
		if nk == "" {
			continue
		}
		m[nk] = NormalizeKey(v)
	}
	return m
}

// Resolve looks up the category for an already-normalized form text.
func Resolve(formNormalized string, categoryMap map[string]string) (string, bool) {
	c, ok := categoryMap[formNormalized]
	return c, ok
}
