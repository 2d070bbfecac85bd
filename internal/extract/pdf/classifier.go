package pdf

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinTextForOCR is the trimmed rune count below which a page is
// treated as scanned.
const DefaultMinTextForOCR = 20

// NeedsOCR reports whether a page's native text is too sparse to trust.
// Length is measured in Unicode code points after trimming whitespace.
func NeedsOCR(text string, minText int) bool {
	if minText <= 0 {
		minText = DefaultMinTextForOCR
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) < minText
}
