package controllers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"minibadge/internal/domain"
)

// BadgeView is a badge with its public links resolved.
type BadgeView struct {
	*domain.Badge
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// AwardView is an award with its public links resolved.
type AwardView struct {
	Slug         string     `json:"slug"`
	Email        string     `json:"email"`
	Badge        *BadgeView `json:"badge,omitempty"`
	URL          string     `json:"url"`
	AssertionURL string     `json:"assertion_url"`
	CreatedAt    time.Time  `json:"created_at"`
}

// linker resolves public URLs for views.
type linker struct {
	logger     *slog.Logger
	assertions domain.AssertionService
	baseURL    string
}

func (l linker) badge(ctx context.Context, b *domain.Badge) *BadgeView {
	v := &BadgeView{Badge: b, URL: l.baseURL + domain.BadgePath(b.Slug)}
	img, err := l.assertions.ImageURL(b, l.baseURL)
	switch {
	case err == nil:
		v.ImageURL = img
	case !errors.Is(err, domain.ErrMissingImage):
		l.logger.WarnContext(ctx, "badge image url", "badge", b.Slug, "err", err)
	}
	return v
}

func (l linker) award(ctx context.Context, a *domain.Award, withBadge bool) AwardView {
	v := AwardView{
		Slug:         a.Slug,
		Email:        a.Email,
		URL:          l.baseURL + domain.AwardPath(a.Slug),
		AssertionURL: l.baseURL + domain.AssertionPath(a.Slug),
		CreatedAt:    a.CreatedAt,
	}
	if withBadge && a.Badge != nil {
		v.Badge = l.badge(ctx, a.Badge)
	}
	return v
}

func (l linker) awards(ctx context.Context, awards []*domain.Award, withBadge bool) []AwardView {
	views := make([]AwardView, 0, len(awards))
	for _, a := range awards {
		views = append(views, l.award(ctx, a, withBadge))
	}
	return views
}
