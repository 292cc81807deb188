package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF byte streams.
type PDFExtractor struct {
	log *slog.Logger
}

func NewPDFExtractor(log *slog.Logger) *PDFExtractor {
	if log == nil {
		log = slog.Default()
	}
	return &PDFExtractor{log: log}
}

// Text implements TextExtractor. On an unreadable document it returns an
// error-describing string instead of failing, so callers that treat the
// result as a search corpus see "no usable text" rather than a crash.
func (e *PDFExtractor) Text(data []byte) string {
	pages, err := e.pageTexts(data)
	if err != nil {
		e.log.Warn("extract.text.unreadable", "error", err, "bytes", len(data))
		return fmt.Sprintf("Error reading PDF: %v", err)
	}
	var b strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

// Pages implements TextExtractor.
func (e *PDFExtractor) Pages(data []byte) []string {
	pages, err := e.pageTexts(data)
	if err != nil {
		e.log.Warn("extract.pages.unreadable", "error", err, "bytes", len(data))
		return []string{}
	}
	return pages
}

// pageTexts runs a single pass over the document. Each page is visited once;
// a page that cannot be decoded yields an empty string.
func (e *PDFExtractor) pageTexts(data []byte) (pages []string, err error) {
	// The underlying reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			e.log.Warn("extract.page.failed", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		var b strings.Builder
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					b.WriteString(" ")
				}
				b.WriteString(word.S)
			}
			b.WriteString("\n")
		}
		pages = append(pages, strings.TrimRight(b.String(), "\n"))
	}
	return pages, nil
}
