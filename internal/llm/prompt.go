package llm

import (
	"fmt"
	"strings"
)

// PageBreak separates the pages inside one batch chunk.
const PageBreak = "\n--- PAGE BREAK ---\n"

// BuildSystemPrompt composes the auditor system message: the row schema, the
// status rules, and the output contract.
func BuildSystemPrompt() string {
	parts := []string{
		"You are an expert financial auditor. You audit a PART of an invoice against a price list and delivery notes.",
		"Primary objective: identify items billed but not delivered.",
		"Perform a line-by-line audit of the invoice items in the user input.",
		"Status rules for the 'Handlung' column:",
		"NICHT GELIEFERT (critical): the delivery-note number (LS-Nr) is not found in the delivery-note text, or the number is found but the article is not on it, or the delivered quantity is 0.",
		"MENGENFEHLER: quantity invoiced exceeds quantity delivered.",
		"PREISFEHLER: invoice price exceeds the price list.",
		"OK: correct.",
		"Return ONLY valid JSON of the form {\"csv_data\": \"...\"} where csv_data holds semicolon-separated rows with the columns: " + CSVHeader + ".",
		"List EVERY single line item found in this text chunk. Do not summarize or group items. Do not stop before the end of the chunk.",
		"Format numbers as standard decimals. Do not include a header row in csv_data.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages one chunk of invoice text with the reference
// material.
func BuildUserPrompt(req BatchRequest) string {
	chunk := strings.Join(req.Pages, PageBreak)

	var b strings.Builder
	fmt.Fprintf(&b, "Here is a CHUNK of the INVOICE text (batch %d of %d):\n---\n%s\n---\n\n", req.BatchIndex+1, req.TotalBatches, chunk)
	fmt.Fprintf(&b, "Here is the PRICE LIST (reference):\n---\n%s\n---\n\n", req.PriceListCSV)
	fmt.Fprintf(&b, "Here is the DELIVERY NOTE text (optional context):\n---\n%s\n---\n\n", req.DeliveryNoteText)
	if instr := strings.TrimSpace(req.CustomInstructions); instr != "" {
		fmt.Fprintf(&b, "CUSTOM INSTRUCTIONS:\n%s\n\n", instr)
	}
	b.WriteString("Analyze this chunk. Return JSON with 'csv_data' containing the rows for this chunk.")
	return b.String()
}
