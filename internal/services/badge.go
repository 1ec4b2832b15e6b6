package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"minibadge/internal/domain"
)

const maxBadgeTitleLen = 255

type badgeService struct {
	badgeRepo      domain.BadgeRepository
	awardRepo      domain.AwardRepository
	images         domain.ImageStore
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBadgeService creates a BadgeService with the given repositories and image store.
func NewBadgeService(badgeRepo domain.BadgeRepository, awardRepo domain.AwardRepository, images domain.ImageStore, timeout time.Duration) domain.BadgeService {
	return &badgeService{
		badgeRepo:      badgeRepo,
		awardRepo:      awardRepo,
		images:         images,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *badgeService) Create(ctx context.Context, caller *domain.Caller, title, description string, img *domain.ImageUpload) (*domain.Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if caller != nil && !caller.Authenticated {
		return nil, domain.ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxBadgeTitleLen {
		return nil, fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxBadgeTitleLen)
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title must contain letters or digits", domain.ErrValidation)
	}

	var creatorID *string
	if caller != nil {
		id := caller.UserID
		creatorID = &id
	}
	// Equal titles give equal slugs, so a free slug also means a free title.
	switch _, err := s.badgeRepo.GetBySlug(ctx, slug); {
	case err == nil:
		return nil, domain.ErrDuplicateBadge
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check badge slug: %w", err)
	}

	now := s.now()
	badge := domain.NewBadge(title, slug, strings.TrimSpace(description), creatorID, now, now)
	if img != nil {
		ref, err := s.images.Save(ctx, slug, img)
		if err != nil {
			return nil, fmt.Errorf("save badge image: %w", err)
		}
		badge.Image = ref
	}
	if err := s.badgeRepo.Create(ctx, badge); err != nil {
		if !errors.Is(err, domain.ErrDuplicateBadge) {
			err = fmt.Errorf("create badge: %w", err)
		}
		return nil, errors.Join(err, s.discardImage(ctx, badge.Image))
	}
	return badge, nil
}

// discardImage removes an image saved for a badge that was never stored.
func (s *badgeService) discardImage(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		return fmt.Errorf("remove unused badge image %s: %w", ref, err)
	}
	return nil
}

func (s *badgeService) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	badge, err := s.badgeRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get badge: %w", err)
	}
	return badge, nil
}

func (s *badgeService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Badge, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	badges, total, err := s.badgeRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list badges: %w", err)
	}
	if badges == nil {
		badges = []*domain.Badge{}
	}
	return badges, total, nil
}

func (s *badgeService) Update(ctx context.Context, caller *domain.Caller, slug string, upd domain.BadgeUpdate) (*domain.Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	badge, err := s.badgeRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get badge: %w", err)
	}
	if !badge.AllowsEditBy(caller) {
		return nil, domain.ErrForbidden
	}
	if upd.Description != nil {
		badge.Description = strings.TrimSpace(*upd.Description)
	}
	var newImage string
	if upd.Image != nil {
		newImage, err = s.images.Save(ctx, badge.Slug, upd.Image)
		if err != nil {
			return nil, fmt.Errorf("save badge image: %w", err)
		}
		badge.Image = newImage
	}
	badge.UpdatedAt = s.now()
	if err := s.badgeRepo.Update(ctx, badge); err != nil {
		return nil, errors.Join(fmt.Errorf("update badge: %w", err), s.discardImage(ctx, newImage))
	}
	return badge, nil
}

func (s *badgeService) GetAward(ctx context.Context, slug string) (*domain.Award, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	award, err := s.awardRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get award: %w", err)
	}
	return award, nil
}

// ListAwardsByEmail returns every award held by email, newest first.
func (s *badgeService) ListAwardsByEmail(ctx context.Context, email string) ([]*domain.Award, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	awards, err := s.awardRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	if awards == nil {
		awards = []*domain.Award{}
	}
	return awards, nil
}
