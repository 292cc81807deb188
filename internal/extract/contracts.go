package extract

// TextExtractor is Stage 1: document bytes -> text.
//
// Implementations never return an error: a document that cannot be read
// degrades to a marker string (Text) or an empty slice (Pages) so that the
// downstream string pipeline keeps working on partial input.
type TextExtractor interface {
	// Text returns the concatenated text of every page, one line break
	// between pages, skipping pages that yield no text.
	Text(data []byte) string

	// Pages returns one entry per page in page order, an empty string for
	// pages that yield no text. On open failure the slice is empty.
	Pages(data []byte) []string
}
