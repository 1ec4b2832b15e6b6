package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"minibadge/internal/domain"
)

var validate = validator.New()

// NormalizeRecipients trims and lower-cases emails, drops blanks and duplicates
// (keeping first-seen order) and validates every address. A single invalid address
// fails the whole list.
func NormalizeRecipients(emails []string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	var out, invalid []string
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if err := validate.Var(e, "email"); err != nil {
			invalid = append(invalid, e)
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: invalid email: %s", domain.ErrValidation, strings.Join(invalid, ", "))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient email is required", domain.ErrValidation)
	}
	return out, nil
}

// normalizeEmail is the single-address form of NormalizeRecipients.
func normalizeEmail(email string) (string, error) {
	out, err := NormalizeRecipients([]string{email})
	if err != nil {
		return "", err
	}
	return out[0], nil
}
