package fileio

import (
	"strings"
	"testing"
)

func TestReadAnyTableCSV(t *testing.T) {
	data := "RECEITA;SEQ;HORA\n1001;1;8\n1002;1;14\n"
	tbl, err := ReadAnyTable(strings.NewReader(data), "controle.csv", 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Headers) != 3 || tbl.Headers[0] != "RECEITA" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0]["HORA"] != "8" {
		t.Errorf("row 0 HORA = %q", tbl.Rows[0]["HORA"])
	}
}

func TestReadAnyTableUnsupported(t *testing.T) {
	if _, err := ReadAnyTable(strings.NewReader(""), "dados.txt", 1); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		peek string
		want rune
	}{
		{"A;B;C\n1;2;3", ';'},
		{"A,B,C\n1,2,3", ','},
		{"VALOR;QTD\n1,50;2", ';'},
	}
	for _, tt := range tests {
		if got := detectDelimiter([]byte(tt.peek)); got != tt.want {
			t.Errorf("detectDelimiter(%q) = %q, want %q", tt.peek, got, tt.want)
		}
	}
}

func TestPickHeaderFillsBlanks(t *testing.T) {
	rows := [][]string{{"FORMA", "", "SEQ"}}
	h := pickHeader(rows, 1)
	if h[1] != "Column 2" {
		t.Errorf("blank header = %q, want Column 2", h[1])
	}
}
