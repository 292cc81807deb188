package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mkoecher/audit-cockpit/internal/reconcile"
)

// CSVHeader is the column order of the raw-data export. The headers match the
// dashboard table so exported files line up with what the user saw.
var CSVHeader = []string{
	"Rechnung LS-Nr",
	"Artikel-Nr",
	"Bezeichnung",
	"Menge",
	"Einheit",
	"Preis_Einzel",
	"Preis_Gesamt",
	"Original_Zeile",
	"Handlung",
}

// WriteCSV renders the labeled item table as a semicolon-delimited CSV dump,
// header row included, one row per item in sequence order.
func WriteCSV(items []reconcile.MatchedItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, item := range items {
		row := []string{
			item.DeliveryNoteRef,
			item.ArticleNumber,
			item.Description,
			item.Quantity,
			item.Unit,
			item.UnitPrice,
			item.TotalPrice,
			item.RawLine,
			item.Status.Label(),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
