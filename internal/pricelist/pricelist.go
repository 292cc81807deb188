package pricelist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMaxRows caps how much of a price list gets rendered into the LLM
// prompt, preventing token overflow on very large lists.
const DefaultMaxRows = 10000

// Loader reads price-list workbooks into the CSV text the LLM auditor
// consumes as its reference.
type Loader struct {
	maxRows int
	log     *slog.Logger
}

func NewLoader(maxRows int, log *slog.Logger) *Loader {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{maxRows: maxRows, log: log}
}

// LoadCSV opens an XLSX workbook, drops fully empty rows and columns from the
// first sheet, and renders the remainder as CSV text.
func (l *Loader) LoadCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.log.Warn("pricelist.close_error", "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows = dropEmptyRows(rows)
	rows = dropEmptyColumns(rows)
	if len(rows) > l.maxRows {
		rows = rows[:l.maxRows]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	l.log.Info("pricelist.loaded", "sheet", sheets[0], "rows", len(rows))
	return buf.String(), nil
}

func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		if !rowEmpty(row) {
			out = append(out, row)
		}
	}
	return out
}

func dropEmptyColumns(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	keep := make([]bool, width)
	for _, row := range rows {
		for i, cell := range row {
			if strings.TrimSpace(cell) != "" {
				keep[i] = true
			}
		}
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		var pruned []string
		for i := 0; i < width; i++ {
			if !keep[i] {
				continue
			}
			if i < len(row) {
				pruned = append(pruned, row[i])
			} else {
				pruned = append(pruned, "")
			}
		}
		out = append(out, pruned)
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
