package services

import (
	"context"
	"log/slog"
	"net/url"

	"minibadge/internal/domain"
	"minibadge/internal/metrics"
)

const awardTemplate = "award"

type emailNotifier struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailNotifier returns a Notifier that sends the "award" template through mailer.
func NewEmailNotifier(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.Notifier {
	return &emailNotifier{mailer: mailer, renderer: renderer, logger: logger}
}

func (n *emailNotifier) NotifyAwarded(ctx context.Context, badge *domain.Badge, awards []*domain.Award, newlyAwarded []string, baseURL string) {
	byEmail := make(map[string]*domain.Award, len(awards))
	for _, a := range awards {
		byEmail[a.Email] = a
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		n.logger.ErrorContext(ctx, "award notification skipped", "badge", badge.Slug, "err", err)
		metrics.Notifications.WithLabelValues("failed").Add(float64(len(newlyAwarded)))
		return
	}

	sent := make(map[string]struct{}, len(newlyAwarded))
	for _, email := range newlyAwarded {
		if _, ok := sent[email]; ok {
			continue
		}
		sent[email] = struct{}{}
		award, ok := byEmail[email]
		if !ok {
			continue
		}
		if err := n.send(ctx, base, badge, award); err != nil {
			n.logger.ErrorContext(ctx, "award notification failed", "badge", badge.Slug, "to", email, "err", err)
			metrics.Notifications.WithLabelValues("failed").Inc()
			continue
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
	}
}

func (n *emailNotifier) send(ctx context.Context, base *url.URL, badge *domain.Badge, award *domain.Award) error {
	awardURL, err := absoluteURL(base, domain.AwardPath(award.Slug))
	if err != nil {
		return err
	}
	claimURL, err := absoluteURL(base, domain.ClaimPath(award.Email))
	if err != nil {
		return err
	}
	data := &domain.AwardEmailData{
		Email:      award.Email,
		BadgeTitle: badge.Title,
		AwardURL:   awardURL,
		ClaimURL:   claimURL,
	}
	subject, htmlBody, textBody, err := n.renderer.Render(awardTemplate, data)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, award.Email, subject, htmlBody, textBody)
}
