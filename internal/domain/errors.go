package domain

import "errors"

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrMissingImage           = errors.New("badge has no image")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrDuplicateSlugExhausted = errors.New("could not find a free award slug")

	// Unique constraint violations reported by storage.
	ErrDuplicateBadge = errors.New("badge title or slug already in use")
	ErrDuplicateAward = errors.New("badge already awarded to this email")
	ErrDuplicateSlug  = errors.New("award slug already in use")
)
