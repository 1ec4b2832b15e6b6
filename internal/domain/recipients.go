package domain

import "strings"

// SplitRecipients splits a free-form recipient list on commas, semicolons and whitespace.
// Empty entries are dropped; no validation is done.
func SplitRecipients(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}
