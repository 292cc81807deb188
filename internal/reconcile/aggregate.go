package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Summary holds the dashboard metrics for one audit run.
type Summary struct {
	TotalItems    int             `json:"total_items"`
	CriticalCount int             `json:"critical_count"`
	RiskTotal     decimal.Decimal `json:"risk_total"`
}

// Summarize counts the labeled items and sums the monetary risk. The risk
// total covers exactly the items with no matching delivery note: those are the
// amounts billed without any delivery evidence and therefore reclaimable.
func Summarize(items []MatchedItem) Summary {
	s := Summary{TotalItems: len(items), RiskTotal: decimal.Zero}
	for _, item := range items {
		if item.Status.Severity() == SeverityCritical {
			s.CriticalCount++
		}
		if item.Status == StatusNoDeliveryNote {
			s.RiskTotal = s.RiskTotal.Add(ParseAmount(item.TotalPrice))
		}
	}
	return s
}

// ParseAmount converts decimal-comma price text ("1.234,56") to a decimal.
// Unparsable values contribute zero so one bad row never poisons the totals.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
