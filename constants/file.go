package constants

import "strings"

// AllowedInvoiceExtensions holds the allowed extensions for invoice and
// delivery-note uploads.
var AllowedInvoiceExtensions = map[string]struct{}{
	"pdf": {},
}

// AllowedPriceListExtensions holds the allowed extensions for price-list uploads.
var AllowedPriceListExtensions = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
