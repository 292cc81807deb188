package reconcile

// Status classifies one invoice line item after reconciliation.
type Status int

const (
	StatusOK Status = iota
	StatusZeroQuantity
	StatusReferenceMissing
	StatusArticleMissing
	StatusNoDeliveryNote
)

// Severity orders statuses for precedence and presentation.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityCritical
)

func (s Status) Severity() Severity {
	switch s {
	case StatusNoDeliveryNote:
		return SeverityCritical
	case StatusReferenceMissing, StatusArticleMissing:
		return SeverityWarning
	case StatusZeroQuantity:
		return SeverityInfo
	default:
		return SeverityOK
	}
}

// Label renders the status the way the dashboard and reports show it.
func (s Status) Label() string {
	switch s {
	case StatusReferenceMissing:
		return "LS-Nr fehlt/unlesbar"
	case StatusNoDeliveryNote:
		return "FEHLT: Kein Lieferschein"
	case StatusArticleMissing:
		return "WARNUNG: Artikel nicht auf LS"
	case StatusZeroQuantity:
		return "Info (Menge 0)"
	default:
		return "OK"
	}
}

func (s Status) String() string { return s.Label() }

// MarshalText lets a MatchedItem carry the human-readable label in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}
