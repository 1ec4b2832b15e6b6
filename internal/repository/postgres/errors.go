package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"minibadge/internal/domain"
)

const uniqueViolation = "23505"

// constraintErrors maps unique constraints from schema.sql to domain errors.
var constraintErrors = map[string]error{
	"badges_title_key":          domain.ErrDuplicateBadge,
	"badges_slug_key":           domain.ErrDuplicateBadge,
	"awards_slug_key":           domain.ErrDuplicateSlug,
	"awards_badge_id_email_key": domain.ErrDuplicateAward,
}

// storageError translates driver errors into domain errors. Unique violations on an
// unknown constraint map to dup; anything unrecognised is ErrStorageUnavailable.
func storageError(err error, dup error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == uniqueViolation {
		if mapped, ok := constraintErrors[perr.Constraint]; ok {
			return mapped
		}
		if dup != nil {
			return dup
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}
