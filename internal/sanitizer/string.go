package sanitizer

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// strict allows no elements at all; bluemonday policies are safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// Trim removes leading and trailing whitespace from the string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NFC normalizes the string to Unicode canonical composition.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// RemoveControlChars drops control characters except common whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// StripMarkup removes all HTML elements and attributes. Text content is
// kept with HTML special characters escaped.
func StripMarkup(s string) string {
	return strict.Sanitize(s)
}

// Text is the sanitizer for post titles, post bodies and comments.
func Text(s string) string {
	return Trim(StripMarkup(NFC(RemoveControlChars(Trim(s)))))
}
