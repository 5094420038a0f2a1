package mail

import (
	"fmt"
	"log/slog"

	mail "github.com/wneessen/go-mail"

	internal "github.com/rosterly/roster-management/internal"
)

// Mailer delivers roster PDFs to staff over SMTP. It is only wired when an
// SMTP host is configured.
type Mailer struct {
	config internal.SMTPConfig
	logger *slog.Logger
}

func NewMailer(config internal.SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{config: config, logger: logger.With("component", "mailer")}
}

func (m *Mailer) SendRoster(recipients []string, subject, body, attachmentPath string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachFile(attachmentPath)

	opts := []mail.Option{mail.WithPort(m.config.Port)}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("roster mailed", "recipients", len(recipients), "subject", subject)
	return nil
}
