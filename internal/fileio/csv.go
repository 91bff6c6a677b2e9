package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads the whole CSV, auto-detecting encoding and converting to UTF-8.
// Pharmacy system exports come as UTF-8 or Windows-1252.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1252", "iso-8859-1":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.Comma = detectDelimiter(peek)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// detectDelimiter: Brazilian exports often use ';' because ',' is the decimal mark.
func detectDelimiter(peek []byte) rune {
	semis, commas := 0, 0
	for _, b := range peek {
		switch b {
		case ';':
			semis++
		case ',':
			commas++
		case '\n':
			if semis > commas {
				return ';'
			}
			return ','
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}
