package constants

import "strings"

// ContentTypePDF is the only document content type the resolver accepts.
const ContentTypePDF = "application/pdf"

// ContentTypeXLSX is the spreadsheet content type used by the verify endpoint.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UnknownSentinel is stored when a pattern yields no value (court station, volume).
const UnknownSentinel = "Unknown"

// IsPDFContentType accepts "application/pdf" with optional parameters.
func IsPDFContentType(ct string) bool {
	base := strings.TrimSpace(strings.ToLower(ct))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	return base == ContentTypePDF
}
