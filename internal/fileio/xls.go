// Robust .xls parser: fix the table width ourselves and read every cell up to it.
package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

func normalizeCell(v string) string {
	return strings.TrimSpace(v)
}

// compute the "real" width: probe a sane number of columns looking for non-empty cells
func computeMaxCols(sheet *xls.WorkSheet, headerRow int) int {
	const probeMax = 512
	maxCols := 0

	hdr0 := headerRow - 1
	if hdr0 < 0 {
		hdr0 = 0
	}
	checkRow := func(i int) {
		if i < 0 || i > int(sheet.MaxRow) {
			return
		}
		r := sheet.Row(i)
		if r == nil {
			return
		}
		for j := 0; j < probeMax; j++ {
			if v := normalizeCell(r.Col(j)); v != "" {
				if j+1 > maxCols {
					maxCols = j + 1
				}
			}
		}
	}

	// header and the row below it are usually the widest
	checkRow(hdr0)
	checkRow(hdr0 + 1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		checkRow(i)
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader, headerRow int) ([][]string, error) {
	if headerRow <= 0 {
		return nil, errors.New("headerRow must be 1-based and >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// legacy .xls from pharmacy systems is usually windows-1252, sometimes UTF-8
	var wb *xls.WorkBook
	tryCharsets := []string{"windows-1252", "utf-8", "iso-8859-1"}
	var lastErr error
	for _, ch := range tryCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	// fix the width and read every row up to it (do NOT trust Row.LastCol())
	maxCols := computeMaxCols(sheet, headerRow)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
