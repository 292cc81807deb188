package parse

import (
	"regexp"
	"strings"
)

// UnknownRef is carried by items that appear before any delivery-note header.
const UnknownRef = "UNKNOWN"

// NoDescription is the placeholder for item lines consisting of a bare
// article number.
const NoDescription = "(Keine Bezeichnung)"

// LineItem is one billed position recovered from one physical line of
// extracted invoice text. Numeric fields keep the decimal-comma text exactly
// as printed; conversion happens at aggregation time.
type LineItem struct {
	DeliveryNoteRef string `json:"delivery_note_ref"`
	ArticleNumber   string `json:"article_number"`
	Description     string `json:"description"`
	Quantity        string `json:"quantity"`
	Unit            string `json:"unit"`
	UnitPrice       string `json:"unit_price"`
	TotalPrice      string `json:"total_price"`
	RawLine         string `json:"raw_line"`
}

// Parser recovers invoice line items from PDF-extracted text. Table structure
// is lost during extraction, so item boundaries come from the lexical shape of
// each line: a run of six or more digits opens an item line.
type Parser struct {
	headerPattern *regexp.Regexp
	itemStart     *regexp.Regexp
	detailPattern *regexp.Regexp
	refPattern    *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		// "Lfsch-/Rechn-Nr.: 23406731" opens a delivery-note section.
		headerPattern: regexp.MustCompile(`(?i)Lfsch-/Rechn-Nr\.\s*:\s*(\d+)`),
		itemStart:     regexp.MustCompile(`^(\d{6,})`),
		// Anchored to the end of the body: quantity, unit, unit price, total
		// price, optional single trailing digit (tax-code marker, discarded).
		detailPattern: regexp.MustCompile(`\s+([\d.]+)\s*([A-Za-z]+)\s+([\d,.]+)\s+([\d,.]+)(?:\s+(\d))?$`),
		refPattern:    regexp.MustCompile(`\b\d{8}\b`),
	}
}

// ParseInvoice scans the invoice pages top to bottom and returns the items in
// document order. The only state carried across lines is the delivery-note
// reference of the most recent header; items before the first header get
// UnknownRef.
func (p *Parser) ParseInvoice(pages []string) []LineItem {
	items := make([]LineItem, 0, 32)
	currentRef := UnknownRef

	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)

			// A header line never also produces an item.
			if m := p.headerPattern.FindStringSubmatch(line); m != nil {
				currentRef = m[1]
				continue
			}

			m := p.itemStart.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			artNr := m[1]
			rest := strings.TrimSpace(line[len(artNr):])

			item := LineItem{
				DeliveryNoteRef: currentRef,
				ArticleNumber:   artNr,
				Description:     NoDescription,
				Quantity:        "0",
				Unit:            "-",
				UnitPrice:       "0,00",
				TotalPrice:      "0,00",
				RawLine:         line,
			}

			if rest != "" {
				item.Description = rest
				if d := p.detailPattern.FindStringSubmatchIndex(rest); d != nil {
					groups := p.detailPattern.FindStringSubmatch(rest)
					// Grouping dots in the quantity are noise ("1.000" -> "1000").
					item.Quantity = strings.ReplaceAll(groups[1], ".", "")
					item.Unit = groups[2]
					item.UnitPrice = groups[3]
					item.TotalPrice = groups[4]
					item.Description = strings.TrimSpace(rest[:d[0]])
				}
			}

			items = append(items, item)
		}
	}
	return items
}

// ExtractReferenceNumbers finds every exactly-eight-digit number in the given
// text and returns them deduplicated. Used as an alternative evidence signal
// over delivery-note text.
func (p *Parser) ExtractReferenceNumbers(text string) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, m := range p.refPattern.FindAllString(text, -1) {
		refs[m] = struct{}{}
	}
	return refs
}
