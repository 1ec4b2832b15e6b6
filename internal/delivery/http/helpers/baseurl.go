package helpers

import (
	"net/http"
	"strings"
)

// BaseURL returns the public origin used to build absolute links. A configured
// value wins; otherwise it is derived from the request, honouring X-Forwarded-Proto.
func BaseURL(r *http.Request, configured string) string {
	if configured != "" {
		return strings.TrimSuffix(configured, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
