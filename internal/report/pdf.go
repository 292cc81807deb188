package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mkoecher/audit-cockpit/internal/reconcile"
)

// WritePDF renders the formatted audit report: a summary block followed by the
// full item table with status-colored rows.
func WritePDF(items []reconcile.MatchedItem, summary reconcile.Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.SetTextColor(30, 61, 89)
		pdf.CellFormat(0, 10, "AUDIT REPORT", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 10, tr("Erstellt am: "+time.Now().Format("02.01.2006 15:04")), "", 1, "L", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Seite %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetAutoPageBreak(true, 15)

	// Summary block
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, tr("Zusammenfassung der Prüfung"), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Geprüfte Positionen: %d", summary.TotalItems)), "", 1, "L", false, 0, "")

	pdf.SetTextColor(200, 0, 0)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Fehlende Positionen: %d", summary.CriticalCount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Geschätzte Rückforderung: %s EUR", summary.RiskTotal.StringFixed(2))), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	// Table header
	widths := []float64{25, 60, 20, 25, 60}
	headers := []string{"Art-Nr", "Bezeichnung", "Menge", "Preis", "Status"}
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Table rows
	pdf.SetFont("Arial", "", 8)
	for _, item := range items {
		switch item.Status.Severity() {
		case reconcile.SeverityCritical:
			pdf.SetTextColor(200, 0, 0)
		case reconcile.SeverityWarning:
			pdf.SetTextColor(200, 100, 0)
		default:
			pdf.SetTextColor(0, 0, 0)
		}

		pdf.CellFormat(widths[0], 6, tr(truncate(item.ArticleNumber, 12)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(item.Description, 35)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(item.TotalPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, tr(truncate(item.Status.Label(), 40)), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
