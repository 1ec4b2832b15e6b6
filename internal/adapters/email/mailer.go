package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"minibadge/internal/domain"
)

// Mail providers understood by NewMailer.
const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

// MailerConfig selects and configures the mail transport.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sender renders the From header, quoting the display name when needed.
func (c MailerConfig) sender() string {
	if c.FromName == "" {
		return c.FromAddress
	}
	return (&mail.Address{Name: c.FromName, Address: c.FromAddress}).String()
}

// NewMailer returns the transport named by config.Provider. An empty or
// unknown provider logs instead of sending, so development setups need no
// credentials.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case ProviderSES:
		client, err := newSESClient(config.SES, logger)
		if err != nil {
			return nil, fmt.Errorf("ses mailer: %w", err)
		}
		return newSESMailer(client, config, logger), nil
	case ProviderNoop, "":
	default:
		logger.Warn("unknown email provider, mail will only be logged", "provider", config.Provider)
	}
	return &noopMailer{logger: logger}, nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, _, _ string) error {
	n.logger.InfoContext(ctx, "mail not sent (noop provider)", "to", to, "subject", subject)
	return nil
}
