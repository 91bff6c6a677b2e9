package service

import (
	"fmt"
	"strings"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/model"
)

// roleKeywords: candidate substrings per role, in priority order, matched against
// NormalizeKey-ed headers. Portuguese production headers first, English fallbacks last.
var roleKeywords = map[model.Role][]string{
	model.RoleForm:     {"FORMA NORM", "FORMA FARM", "FORMA", "FORM"},
	model.RoleReceipt:  {"NR RECEITA", "RECEITA", "RECEIPT"},
	model.RoleSequence: {"SEQUENCIA", "SEQ"},
	model.RoleHour:     {"HORARIO", "HORA", "HOUR"},
	model.RoleSeller:   {"VENDEDOR", "ATENDENTE", "SELLER"},
	model.RoleAmount:   {"VALOR", "AMOUNT", "TOTAL"},
	model.RoleQuantity: {"QUANTIDADE", "QTDE", "QTD", "QUANT"},
	model.RoleLane:     {"ESTEIRA", "LINHA", "LANE"},
}

// discovery order keeps binding deterministic when one header could satisfy
// two roles (e.g. "TOTAL RECEITA" must go to receipt before amount sees it).
var roleOrder = []model.Role{
	model.RoleForm, model.RoleReceipt, model.RoleSequence, model.RoleHour,
	model.RoleSeller, model.RoleQuantity, model.RoleAmount, model.RoleLane,
}

// FallbackPolicy names the positional defaults used when keyword detection fails.
// It mirrors one known source-file convention and is overridable per sheet kind.
type FallbackPolicy map[model.Role]int

// Prototype layouts of the two known exports.
var (
	DiaryFallback   = FallbackPolicy{model.RoleForm: 0, model.RoleReceipt: 1, model.RoleSequence: 2}
	ControlFallback = FallbackPolicy{model.RoleReceipt: 0, model.RoleSequence: 1, model.RoleHour: 2}
)

// ColumnError is the structural "required column undetectable" failure.
type ColumnError struct {
	Sheet string
	Role  model.Role
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: required column %q undetectable", e.Sheet, e.Role)
}

// DiscoverColumns binds semantic roles to the sheet's concrete headers. Keyword
// match wins; the fallback policy covers headerless prototype exports; a mandatory
// role with neither fails fast.
func DiscoverColumns(headers []string, fallback FallbackPolicy, mandatory []model.Role, sheet string) (model.ColumnRoleMap, error) {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = NormalizeKey(h)
	}

	out := model.ColumnRoleMap{}
	used := make(map[int]bool, len(headers))

	for _, role := range roleOrder {
		for _, kw := range roleKeywords[role] {
			found := -1
			for i, h := range normed {
				if !used[i] && strings.Contains(h, kw) {
					found = i
					break
				}
			}
			if found >= 0 {
				out[role] = headers[found]
				used[found] = true
				break
			}
		}
	}

	for role, pos := range fallback {
		if _, ok := out[role]; ok {
			continue
		}
		if pos >= 0 && pos < len(headers) && !used[pos] {
			out[role] = headers[pos]
			used[pos] = true
		}
	}

	for _, role := range mandatory {
		if _, ok := out[role]; !ok {
			return nil, &ColumnError{Sheet: sheet, Role: role}
		}
	}
	return out, nil
}
