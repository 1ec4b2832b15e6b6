package services

import (
	"fmt"
	"net/url"
	"strings"

	"minibadge/internal/domain"
)

// parseBaseURL checks that base is an absolute http(s) origin.
func parseBaseURL(base string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: base url %q must be absolute", domain.ErrValidation, base)
	}
	return u, nil
}

// absoluteURL resolves ref against base.
func absoluteURL(base *url.URL, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q", domain.ErrValidation, ref)
	}
	return base.ResolveReference(r).String(), nil
}

// imageURL joins the uploads base with the image reference of src and resolves
// the result against base. uploadsBase may itself be absolute (e.g. a CDN).
func imageURL(base *url.URL, uploadsBase string, src domain.ImageSource) (string, error) {
	ref := src.ImageRef()
	if ref == "" {
		return "", domain.ErrMissingImage
	}
	if !strings.HasSuffix(uploadsBase, "/") {
		uploadsBase += "/"
	}
	return absoluteURL(base, uploadsBase+strings.TrimPrefix(ref, "/"))
}
