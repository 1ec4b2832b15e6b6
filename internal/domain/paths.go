package domain

import "net/url"

// Public resource paths, relative to the serving origin.
func BadgePath(slug string) string     { return "/badges/" + url.PathEscape(slug) }
func AwardPath(slug string) string     { return "/awards/" + url.PathEscape(slug) }
func AssertionPath(slug string) string { return AwardPath(slug) + "/assertion" }
func ClaimPath(email string) string    { return "/claims/" + url.PathEscape(email) }
