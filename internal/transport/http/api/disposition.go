package api

import (
	"mime"
	"strings"
)

// contentDisposition quotes ASCII names directly and falls back to the
// RFC 2231 encoded form for anything else.
func contentDisposition(fileName string) string {
	if value := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); value != "" {
		return value
	}
	return `attachment; filename="` + strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, fileName) + `"`
}
