package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey upper-cases, strips diacritics, trims and collapses whitespace.
// Every join key and every category lookup goes through here. Idempotent.
func NormalizeKey(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToUpper(out)
	return strings.Join(strings.Fields(out), " ")
}

var amountKeep = regexp.MustCompile(`[^0-9.,\-]`)

// ParseAmount parses pt-BR and plain currency strings: "1.234,56", "1234.56",
// "R$ 197,00". Unparseable input yields zero, never an error.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	// already-numeric input passes through unchanged
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	s = amountKeep.ReplaceAllString(s, "")
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		// "." thousands, "," decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var hourText = regexp.MustCompile(`^(\d{1,2})(?::([0-5]\d))?`)

// ParseHourValue extracts an integer hour from an integer, an Excel serial time
// (fraction of a day) or an "H" / "H:MM" text value.
func ParseHourValue(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if f >= 0 && f < 1 {
			return int(f * 24), true // Excel serial time
		}
		if f == float64(int64(f)) && f >= 0 && f <= 23 {
			return int(f), true
		}
		return 0, false
	}
	if m := hourText.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 0 && h <= 23 {
			return h, true
		}
	}
	return 0, false
}

// ParseQuantity reads an integer quantity; absent or unusable values default to 1
// so one malformed row never blocks the batch.
func ParseQuantity(raw string) int {
	d := ParseAmount(raw)
	q := int(d.IntPart())
	if q <= 0 {
		return 1
	}
	return q
}
