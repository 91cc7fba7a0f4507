package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks. The result is HTML:
// bare markup characters in text come back entity-escaped.
func Sanitize(input string) string {
	return richPolicy.Sanitize(input)
}

// SanitizeText strips every tag and returns plain text with entities decoded,
// so "Tom & Jerry's" survives unchanged and repeated saves are stable.
// Callers must escape the value when rendering it as HTML.
func SanitizeText(input string) string {
	return html.UnescapeString(plainPolicy.Sanitize(input))
}
