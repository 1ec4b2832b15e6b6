package services

import (
	"strings"
	"unicode"
)

// DescriptorTextLimit is the maximum length, in characters, of the name and
// description published in a badge descriptor.
const DescriptorTextLimit = 128

// truncateWords shortens s to at most limit characters, cutting only at
// whitespace (spaces, tabs, newlines) so no word is split. Text at or under the
// limit is returned unchanged. If the first word alone exceeds the limit the
// result is empty.
func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	// Whitespace right after the limit means the first limit characters end on a word.
	prefix := string(runes[:limit+1])
	cut := strings.LastIndexFunc(prefix, unicode.IsSpace)
	if cut < 0 {
		return ""
	}
	return strings.TrimRightFunc(prefix[:cut], unicode.IsSpace)
}
