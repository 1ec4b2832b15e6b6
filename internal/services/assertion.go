package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"minibadge/internal/domain"
	"minibadge/internal/metrics"
)

// AssertionConfig holds the issuer settings published in assertions.
type AssertionConfig struct {
	Issuer         string
	UploadsBaseURL string
}

type assertionService struct {
	cfg       AssertionConfig
	awardRepo domain.AwardRepository
	badgeRepo domain.BadgeRepository
}

// NewAssertionService returns an AssertionService publishing documents for cfg.Issuer.
func NewAssertionService(cfg AssertionConfig, awardRepo domain.AwardRepository, badgeRepo domain.BadgeRepository) domain.AssertionService {
	return &assertionService{cfg: cfg, awardRepo: awardRepo, badgeRepo: badgeRepo}
}

func (s *assertionService) BuildBadgeDescriptor(badge *domain.Badge, baseURL string) (*domain.BadgeDescriptor, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	image, err := imageURL(base, s.cfg.UploadsBaseURL, badge)
	if err != nil {
		return nil, fmt.Errorf("badge %s: %w", badge.Slug, err)
	}
	criteria, err := absoluteURL(base, domain.BadgePath(badge.Slug))
	if err != nil {
		return nil, err
	}
	return &domain.BadgeDescriptor{
		Version:     domain.AssertionSchemaVersion,
		Name:        truncateWords(badge.Title, DescriptorTextLimit),
		Description: truncateWords(badge.Description, DescriptorTextLimit),
		Criteria:    criteria,
		Issuer:      s.issuer(base),
		Image:       image,
	}, nil
}

// issuer falls back to the serving origin when none is configured.
func (s *assertionService) issuer(base *url.URL) string {
	if s.cfg.Issuer != "" {
		return s.cfg.Issuer
	}
	return base.Scheme + "://" + base.Host
}

func (s *assertionService) BuildAssertion(award *domain.Award, baseURL string) (*domain.Assertion, error) {
	if award.Badge == nil {
		return nil, fmt.Errorf("award %s: badge not loaded", award.Slug)
	}
	descriptor, err := s.BuildBadgeDescriptor(award.Badge, baseURL)
	if err != nil {
		return nil, err
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	evidence, err := absoluteURL(base, domain.AwardPath(award.Slug))
	if err != nil {
		return nil, err
	}
	recipient, salt := ObfuscateRecipient(award.Email, award.Slug)
	return &domain.Assertion{
		Recipient: recipient,
		Salt:      salt,
		Evidence:  evidence,
		IssuedOn:  award.CreatedAt.UTC().Format("2006-01-02"),
		Badge:     descriptor,
	}, nil
}

// ImageURL returns the absolute public URL of the image behind src.
func (s *assertionService) ImageURL(src domain.ImageSource, baseURL string) (string, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	return imageURL(base, s.cfg.UploadsBaseURL, src)
}

// AssertionForSlug loads the award identified by awardSlug and builds its assertion.
func (s *assertionService) AssertionForSlug(ctx context.Context, awardSlug, baseURL string) (*domain.Assertion, error) {
	award, err := s.awardRepo.GetBySlug(ctx, awardSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get award: %w", err)
	}
	if award.Badge == nil {
		badge, err := s.badgeRepo.GetByID(ctx, award.BadgeID)
		if err != nil {
			return nil, fmt.Errorf("get badge: %w", err)
		}
		award.Badge = badge
	}
	assertion, err := s.BuildAssertion(award, baseURL)
	if err != nil {
		return nil, err
	}
	metrics.AssertionsServed.Inc()
	return assertion, nil
}
