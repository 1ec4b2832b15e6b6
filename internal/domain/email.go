package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AwardEmailData holds data for the badge achieved email.
type AwardEmailData struct {
	Email      string
	BadgeTitle string
	AwardURL   string
	ClaimURL   string
}

// Notifier tells recipients about their new awards.
type Notifier interface {
	// NotifyAwarded sends one notice per distinct email in newlyAwarded. Delivery
	// failures are logged, never returned.
	NotifyAwarded(ctx context.Context, badge *Badge, awards []*Award, newlyAwarded []string, baseURL string)
}
