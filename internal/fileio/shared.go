package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table is one parsed sheet: ordered headers plus rows keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadAnyTable picks a parser by extension and returns the sheet as a Table.
// headerRow is 1-based.
func ReadAnyTable(r io.Reader, filename string, headerRow int) (Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r, headerRow)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	h := pickHeader(rows, headerRow)
	return Table{Headers: h, Rows: rowsToMaps(rows, h, headerRow)}, nil
}

// pickHeader takes the header row, substituting "Column N" for blanks.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts the AoA into []map keyed by header, skipping fully empty rows.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // first row after the headers
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
		}
		empty := true
		for _, v := range m {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
