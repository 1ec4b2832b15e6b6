package domain

import (
	"context"
	"time"
)

// AwardSlugLength is the length of the public award identifier.
const AwardSlugLength = 5

// Award records that an email address has earned a badge.
// swagger:model Award
type Award struct {
	ID        string    `json:"id"`
	BadgeID   string    `json:"badge_id"`
	Badge     *Badge    `json:"badge,omitempty"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAward returns a new Award for badge and email carrying an already minted slug.
// ID is set by the repository on create.
func NewAward(badge *Badge, email, slug string, now time.Time) *Award {
	return &Award{
		BadgeID:   badge.ID,
		Badge:     badge,
		Email:     email,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ImageRef delegates to the awarded badge.
func (a *Award) ImageRef() string {
	if a.Badge == nil {
		return ""
	}
	return a.Badge.ImageRef()
}

// AwardRepository defines storage for awards. Implementations must enforce
// uniqueness of slug and of (badge_id, email).
type AwardRepository interface {
	// Create inserts the award. Returns ErrDuplicateAward or ErrDuplicateSlug on unique violations.
	Create(ctx context.Context, award *Award) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	// GetBySlug returns the award with its Badge populated.
	GetBySlug(ctx context.Context, slug string) (*Award, error)
	GetByBadgeAndEmail(ctx context.Context, badgeID, email string) (*Award, error)
	ListByBadgeAndEmails(ctx context.Context, badgeID string, emails []string) ([]*Award, error)
	// ListByEmail returns the awards of email with their Badge populated, newest first.
	ListByEmail(ctx context.Context, email string) ([]*Award, error)
}

// SlugGenerator mints unique award slugs.
type SlugGenerator interface {
	Generate(ctx context.Context, email string) (string, error)
	// Attempts is the configured retry cap, also applied to slugs lost at insert.
	Attempts() int
}

// IssueResult is the outcome of an issue call.
type IssueResult struct {
	// Awards holds pre-existing and newly created awards.
	Awards []*Award `json:"awards"`
	// NewlyAwarded lists the distinct emails that received a new award in this call.
	NewlyAwarded []string `json:"newly_awarded"`
}

// AwardService issues badges to recipients.
type AwardService interface {
	// Issue awards badge to emails. On a mid-batch storage failure the returned
	// result holds what was committed before the failure, alongside the error.
	Issue(ctx context.Context, badge *Badge, emails []string) (*IssueResult, error)
	// AwardBadge checks that caller may award the badge, issues it and notifies new recipients.
	AwardBadge(ctx context.Context, caller *Caller, badgeSlug string, emails []string, baseURL string) (*IssueResult, error)
}
