package reconcile

import (
	"testing"

	"github.com/mkoecher/audit-cockpit/internal/parse"
)

func item(ref, article, qty, total string) parse.LineItem {
	return parse.LineItem{
		DeliveryNoteRef: ref,
		ArticleNumber:   article,
		Description:     "Testartikel",
		Quantity:        qty,
		Unit:            "ST",
		UnitPrice:       "1,00",
		TotalPrice:      total,
	}
}

// TestMatch_NoEvidence: without delivery notes no item can be flagged as
// missing from them; only OK and the zero-quantity note may appear.
func TestMatch_NoEvidence(t *testing.T) {
	items := []parse.LineItem{
		item("23406731", "867130", "10", "97,00"),
		item("23406731", "867131", "0", "0,00"),
	}
	matched := Match(items, Evidence{})

	if matched[0].Status != StatusOK {
		t.Errorf("item 0 status = %v, want OK", matched[0].Status)
	}
	if matched[1].Status != StatusZeroQuantity {
		t.Errorf("item 1 status = %v, want zero-quantity note", matched[1].Status)
	}
}

// TestMatch_ArticleMissing: evidence contains the reference but not the
// article number.
func TestMatch_ArticleMissing(t *testing.T) {
	ev := Evidence{Text: "Lieferschein 23406731 Position 999999", Supplied: true}
	matched := Match([]parse.LineItem{item("23406731", "867130", "10", "97,00")}, ev)

	if matched[0].Status != StatusArticleMissing {
		t.Errorf("status = %v, want article-missing", matched[0].Status)
	}
	if matched[0].Status.Severity() != SeverityWarning {
		t.Errorf("severity = %v, want warning", matched[0].Status.Severity())
	}
}

// TestMatch_NoDeliveryNote: evidence does not mention the reference at all.
func TestMatch_NoDeliveryNote(t *testing.T) {
	ev := Evidence{Text: "Lieferschein 23406731", Supplied: true}
	matched := Match([]parse.LineItem{item("99999999", "867130", "10", "97,00")}, ev)

	if matched[0].Status != StatusNoDeliveryNote {
		t.Errorf("status = %v, want no-delivery-note", matched[0].Status)
	}
	if matched[0].Status.Severity() != SeverityCritical {
		t.Errorf("severity = %v, want critical", matched[0].Status.Severity())
	}
}

// TestMatch_UnknownRef: items that never saw a header are flagged regardless
// of evidence.
func TestMatch_UnknownRef(t *testing.T) {
	ev := Evidence{Text: "867130", Supplied: true}
	matched := Match([]parse.LineItem{item(parse.UnknownRef, "867130", "10", "97,00")}, ev)

	if matched[0].Status != StatusReferenceMissing {
		t.Errorf("status = %v, want reference-missing", matched[0].Status)
	}
}

// TestMatch_ZeroQuantityDoesNotMaskFindings: the informational zero-quantity
// note only replaces OK, never a warning or critical finding.
func TestMatch_ZeroQuantityDoesNotMaskFindings(t *testing.T) {
	ev := Evidence{Text: "nichts davon", Supplied: true}
	matched := Match([]parse.LineItem{
		item("99999999", "867130", "0", "50,00"),
		item(parse.UnknownRef, "867131", "0,00", "10,00"),
	}, ev)

	if matched[0].Status != StatusNoDeliveryNote {
		t.Errorf("item 0 status = %v, want no-delivery-note", matched[0].Status)
	}
	if matched[1].Status != StatusReferenceMissing {
		t.Errorf("item 1 status = %v, want reference-missing", matched[1].Status)
	}
}

// TestMatch_SubstringContainment: matching is plain containment over the
// evidence blob, so a reference appearing mid-text counts.
func TestMatch_SubstringContainment(t *testing.T) {
	ev := Evidence{Text: "xx23406731yy 867130zz", Supplied: true}
	matched := Match([]parse.LineItem{item("23406731", "867130", "10", "97,00")}, ev)

	if matched[0].Status != StatusOK {
		t.Errorf("status = %v, want OK", matched[0].Status)
	}
}

func TestStatusLabels(t *testing.T) {
	cases := map[Status]string{
		StatusOK:               "OK",
		StatusZeroQuantity:     "Info (Menge 0)",
		StatusReferenceMissing: "LS-Nr fehlt/unlesbar",
		StatusArticleMissing:   "WARNUNG: Artikel nicht auf LS",
		StatusNoDeliveryNote:   "FEHLT: Kein Lieferschein",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Errorf("label(%d) = %q, want %q", status, got, want)
		}
	}
}
