package services

import (
	"strings"

	"github.com/gosimple/slug"
)

// maxBadgeSlugLen matches the badges.slug column.
const maxBadgeSlugLen = 255

// Slugify derives the URL slug of a badge title. Non-ASCII letters are
// transliterated ("Café" becomes "cafe"), so any title with letters or digits
// in some script yields a non-empty slug.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > maxBadgeSlugLen {
		s = strings.TrimRight(s[:maxBadgeSlugLen], "-_")
	}
	return s
}
