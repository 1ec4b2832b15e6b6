package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"minibadge/internal/domain"
	"minibadge/internal/metrics"
)

type awardService struct {
	badgeRepo      domain.BadgeRepository
	awardRepo      domain.AwardRepository
	slugs          domain.SlugGenerator
	notifier       domain.Notifier
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAwardService creates an AwardService. notifier may be nil, in which case no
// notices are sent.
func NewAwardService(
	badgeRepo domain.BadgeRepository,
	awardRepo domain.AwardRepository,
	slugs domain.SlugGenerator,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AwardService {
	return &awardService{
		badgeRepo:      badgeRepo,
		awardRepo:      awardRepo,
		slugs:          slugs,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *awardService) Issue(ctx context.Context, badge *domain.Badge, emails []string) (*domain.IssueResult, error) {
	recipients, err := NormalizeRecipients(emails)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.awardRepo.ListByBadgeAndEmails(ctx, badge.ID, recipients)
	if err != nil {
		return nil, fmt.Errorf("list existing awards: %w", err)
	}

	result := &domain.IssueResult{
		Awards:       make([]*domain.Award, 0, len(recipients)),
		NewlyAwarded: []string{},
	}
	awarded := make(map[string]struct{}, len(recipients))
	for _, a := range existing {
		a.Badge = badge
		result.Awards = append(result.Awards, a)
		awarded[a.Email] = struct{}{}
	}

	for _, email := range recipients {
		if _, ok := awarded[email]; ok {
			continue
		}
		award, created, err := s.createAward(ctx, badge, email)
		if err != nil {
			return result, fmt.Errorf("award %s: %w", email, err)
		}
		awarded[email] = struct{}{}
		result.Awards = append(result.Awards, award)
		if created {
			result.NewlyAwarded = append(result.NewlyAwarded, email)
			metrics.AwardsCreated.Inc()
		}
	}
	return result, nil
}

// createAward inserts a new award for email. A concurrent insert of the same
// (badge, email) wins: its award is re-fetched and reported as not created.
func (s *awardService) createAward(ctx context.Context, badge *domain.Badge, email string) (*domain.Award, bool, error) {
	for attempt := 0; attempt < s.slugs.Attempts(); attempt++ {
		slug, err := s.slugs.Generate(ctx, email)
		if err != nil {
			return nil, false, err
		}
		award := domain.NewAward(badge, email, slug, s.now())
		err = s.awardRepo.Create(ctx, award)
		switch {
		case err == nil:
			return award, true, nil
		case errors.Is(err, domain.ErrDuplicateAward):
			winner, err := s.awardRepo.GetByBadgeAndEmail(ctx, badge.ID, email)
			if err != nil {
				return nil, false, fmt.Errorf("get concurrent award: %w", err)
			}
			winner.Badge = badge
			return winner, false, nil
		case errors.Is(err, domain.ErrDuplicateSlug):
			// slug taken between the existence check and the insert
			continue
		default:
			return nil, false, fmt.Errorf("create award: %w", err)
		}
	}
	return nil, false, domain.ErrDuplicateSlugExhausted
}

func (s *awardService) AwardBadge(ctx context.Context, caller *domain.Caller, badgeSlug string, emails []string, baseURL string) (*domain.IssueResult, error) {
	badge, err := s.getBadge(ctx, badgeSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get badge: %w", err)
	}
	if !badge.AllowsAwardTo(caller) {
		return nil, domain.ErrForbidden
	}

	result, issueErr := s.Issue(ctx, badge, emails)
	if result != nil && len(result.NewlyAwarded) > 0 && s.notifier != nil {
		s.notifier.NotifyAwarded(ctx, badge, result.Awards, result.NewlyAwarded, baseURL)
	}
	if issueErr != nil {
		return result, issueErr
	}
	s.logger.InfoContext(ctx, "badge awarded",
		"badge", badge.Slug,
		"recipients", len(result.Awards),
		"new", len(result.NewlyAwarded),
	)
	return result, nil
}

func (s *awardService) getBadge(ctx context.Context, slug string) (*domain.Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.badgeRepo.GetBySlug(ctx, slug)
}
