package domain

import "context"

// AssertionSchemaVersion is the OBI assertion version emitted in badge descriptors.
const AssertionSchemaVersion = "0.5.0"

// BadgeDescriptor is the public badge metadata embedded in an assertion.
// swagger:model BadgeDescriptor
type BadgeDescriptor struct {
	Version     string `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Criteria    string `json:"criteria"`
	Issuer      string `json:"issuer"`
	Image       string `json:"image"`
}

// Assertion is the verifiable document proving an award.
// swagger:model Assertion
type Assertion struct {
	Recipient string           `json:"recipient"`
	Salt      string           `json:"salt"`
	Evidence  string           `json:"evidence"`
	IssuedOn  string           `json:"issued_on"`
	Badge     *BadgeDescriptor `json:"badge"`
}

// AssertionService builds assertion documents.
type AssertionService interface {
	BuildBadgeDescriptor(badge *Badge, baseURL string) (*BadgeDescriptor, error)
	BuildAssertion(award *Award, baseURL string) (*Assertion, error)
	AssertionForSlug(ctx context.Context, awardSlug, baseURL string) (*Assertion, error)
	// ImageURL returns the absolute image URL of a badge or award, ErrMissingImage if it has none.
	ImageURL(src ImageSource, baseURL string) (string, error)
}
