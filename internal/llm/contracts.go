package llm

import "context"

// CSVHeader is the first line of the normalized audit CSV. Batch responses
// never include it; the runner prepends it once.
const CSVHeader = "Handlung;Rechnung LS-Nr;Artikel-Nr;Bezeichnung;Menge Rech;Menge Geliefert;Preis Rech;Preis Soll"

// Finding is one normalized row of the audit CSV.
type Finding struct {
	Status          string `json:"status"`
	DeliveryNoteRef string `json:"delivery_note_ref"`
	ArticleNumber   string `json:"article_number"`
	Description     string `json:"description"`
	QtyInvoiced     string `json:"qty_invoiced"`
	QtyDelivered    string `json:"qty_delivered"`
	PriceInvoiced   string `json:"price_invoiced"`
	PriceExpected   string `json:"price_expected"`
}

// AuditRequest carries everything one cross-check run needs.
type AuditRequest struct {
	Pages              []string // invoice page texts, in page order
	PriceListCSV       string
	DeliveryNoteText   string
	CustomInstructions string
	Deployment         string // model identifier; empty uses the client default
}

// BatchRequest is one batch of invoice pages submitted to the model.
type BatchRequest struct {
	Pages              []string
	BatchIndex         int
	TotalBatches       int
	PriceListCSV       string
	DeliveryNoteText   string
	CustomInstructions string
	Deployment         string
}

// BatchAuditor is the external collaborator: given one batch of invoice page
// text plus reference material, it returns the CSV rows found in that batch.
// Implementations must be safe for concurrent calls.
type BatchAuditor interface {
	AuditBatch(ctx context.Context, req BatchRequest) ([]string, error)
}
