package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/mkoecher/audit-cockpit/internal/parse"
	"github.com/mkoecher/audit-cockpit/internal/reconcile"
)

func sampleItems() []reconcile.MatchedItem {
	return []reconcile.MatchedItem{
		{
			LineItem: parse.LineItem{
				DeliveryNoteRef: "23406731",
				ArticleNumber:   "867130",
				Description:     "Plum Wine Case",
				Quantity:        "10",
				Unit:            "Fla",
				UnitPrice:       "9,70",
				TotalPrice:      "97,00",
				RawLine:         "867130 Plum Wine Case 10 Fla 9,70 97,00 1",
			},
			Status: reconcile.StatusOK,
		},
		{
			LineItem: parse.LineItem{
				DeliveryNoteRef: "99999999",
				ArticleNumber:   "111111",
				Description:     "Fehlt; komplett",
				Quantity:        "2",
				Unit:            "ST",
				UnitPrice:       "50,00",
				TotalPrice:      "100,00",
			},
			Status: reconcile.StatusNoDeliveryNote,
		},
		{
			LineItem: parse.LineItem{
				DeliveryNoteRef: parse.UnknownRef,
				ArticleNumber:   "222222",
				Description:     parse.NoDescription,
				Quantity:        "0",
				Unit:            "-",
				UnitPrice:       "0,00",
				TotalPrice:      "0,00",
			},
			Status: reconcile.StatusReferenceMissing,
		},
	}
}

// TestWriteCSV_RoundTrip re-reads the export and checks that row count, order
// and status labels survive the trip.
func TestWriteCSV_RoundTrip(t *testing.T) {
	items := sampleItems()
	data, err := WriteCSV(items)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-reading export: %v", err)
	}

	if len(records) != len(items)+1 {
		t.Fatalf("got %d records, want %d rows plus header", len(records), len(items)+1)
	}
	for i, col := range CSVHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}
	for i, item := range items {
		row := records[i+1]
		if row[0] != item.DeliveryNoteRef {
			t.Errorf("row %d ref = %q, want %q", i, row[0], item.DeliveryNoteRef)
		}
		if row[1] != item.ArticleNumber {
			t.Errorf("row %d article = %q, want %q", i, row[1], item.ArticleNumber)
		}
		if row[8] != item.Status.Label() {
			t.Errorf("row %d status = %q, want %q", i, row[8], item.Status.Label())
		}
	}
}

// TestWriteCSV_QuotesSemicolons: a description containing the delimiter must
// survive as a single field.
func TestWriteCSV_QuotesSemicolons(t *testing.T) {
	data, err := WriteCSV(sampleItems())
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-reading export: %v", err)
	}
	if got := records[2][2]; got != "Fehlt; komplett" {
		t.Errorf("description = %q, want delimiter preserved", got)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	data, err := WriteCSV(nil)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-reading export: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export has %d records, want header only", len(records))
	}
}
