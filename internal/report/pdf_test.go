package report

import (
	"bytes"
	"testing"

	"github.com/mkoecher/audit-cockpit/internal/reconcile"
)

// TestWritePDF produces a syntactically valid PDF for a populated run.
func TestWritePDF(t *testing.T) {
	items := sampleItems()
	data, err := WritePDF(items, reconcile.Summarize(items))
	if err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF marker: %q", data[:min(8, len(data))])
	}
}

func TestWritePDF_Empty(t *testing.T) {
	data, err := WritePDF(nil, reconcile.Summary{})
	if err != nil {
		t.Fatalf("WritePDF failed on empty run: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty run produced no document")
	}
}
