package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkoecher/audit-cockpit/internal/parse"
)

// Evidence is the concatenated text of every uploaded delivery note, in upload
// order. It is a substring-search corpus only; delivery notes are never parsed
// structurally. Supplied distinguishes "no delivery notes uploaded" from
// "uploaded but empty".
type Evidence struct {
	Text     string
	Supplied bool
}

// MatchedItem is a parsed line item stamped with its reconciliation status.
type MatchedItem struct {
	parse.LineItem
	Status Status `json:"status"`
}

// Match assigns each item a status, independently and in sequence order.
//
// Every applicable rule is evaluated and the most severe result wins; in
// particular the zero-quantity informational label only surfaces on items that
// are otherwise clean. Reference and article lookups use plain substring
// containment against the evidence blob, accepting the occasional cross-token
// false positive in exchange for recall on loosely extracted text.
func Match(items []parse.LineItem, ev Evidence) []MatchedItem {
	out := make([]MatchedItem, 0, len(items))
	for _, item := range items {
		out = append(out, MatchedItem{LineItem: item, Status: statusFor(item, ev)})
	}
	return out
}

func statusFor(item parse.LineItem, ev Evidence) Status {
	status := StatusOK

	switch {
	case item.DeliveryNoteRef == "" || item.DeliveryNoteRef == parse.UnknownRef:
		status = StatusReferenceMissing
	case ev.Supplied && !strings.Contains(ev.Text, item.DeliveryNoteRef):
		status = StatusNoDeliveryNote
	case ev.Supplied && !strings.Contains(ev.Text, item.ArticleNumber):
		status = StatusArticleMissing
	}

	if quantityIsZero(item.Quantity) && StatusZeroQuantity.Severity() > status.Severity() {
		status = StatusZeroQuantity
	}
	return status
}

func quantityIsZero(qty string) bool {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(qty), ",", "."))
	if err != nil {
		return false
	}
	return d.IsZero()
}
