package pricelist

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, cells map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for ref, val := range cells {
		if err := f.SetCellValue("Sheet1", ref, val); err != nil {
			t.Fatalf("set cell %s: %v", ref, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// TestLoadCSV renders the first sheet as CSV with empty rows and columns
// removed.
func TestLoadCSV(t *testing.T) {
	data := workbookBytes(t, map[string]string{
		"A1": "Artikel-Nr",
		"B1": "Bezeichnung",
		"D1": "Preis",
		"A2": "867130",
		"B2": "Plum Wine Case",
		"D2": "9,70",
		// row 3 left empty, column C never filled
		"A4": "111111",
		"B4": "Bier",
		"D4": "5,00",
	})

	l := NewLoader(0, nil)
	csv, err := l.LoadCSV(data)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (empty row dropped): %q", len(lines), csv)
	}
	if lines[0] != "Artikel-Nr,Bezeichnung,Preis" {
		t.Errorf("header = %q, want empty column dropped", lines[0])
	}
	if !strings.HasPrefix(lines[1], "867130,") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

// TestLoadCSV_RowCap truncates oversized sheets.
func TestLoadCSV_RowCap(t *testing.T) {
	cells := map[string]string{
		"A1": "r1", "A2": "r2", "A3": "r3", "A4": "r4", "A5": "r5",
	}
	l := NewLoader(3, nil)
	csv, err := l.LoadCSV(workbookBytes(t, cells))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want cap of 3", len(lines))
	}
}

func TestLoadCSV_NotAWorkbook(t *testing.T) {
	l := NewLoader(0, nil)
	if _, err := l.LoadCSV([]byte("definitely not xlsx")); err == nil {
		t.Fatal("expected error for non-workbook input")
	}
}
