package notification

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/utils"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewMailer picks SendGrid when an API key is configured, then SMTP, and
// falls back to a mailer that only logs.
func NewMailer(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.SendGridAPIKey != "" {
		from := cfg.SMTPFromEmail
		if from == "" {
			from = "noreply@housefit.local"
		}
		log.Info("📧 Using SendGrid mailer")
		return &sendGridMailer{
			client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
			fromName:  cfg.SMTPFromName,
			fromEmail: from,
		}
	}

	settings := utils.SMTPSettingsFromConfig(cfg)
	if settings.Configured() {
		log.Info("📧 Using SMTP mailer", zap.String("host", settings.Host))
		return &smtpMailer{settings: settings}
	}

	log.Warn("⚠️ No mail transport configured, emails will only be logged")
	return &logMailer{log: log}
}

type smtpMailer struct {
	settings utils.SMTPSettings
}

func (m *smtpMailer) Send(_ context.Context, to, subject, html string) error {
	return utils.SendHTMLMail(m.settings, to, subject, html)
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func (m *sendGridMailer) Send(ctx context.Context, to, subject, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	recipient := mail.NewEmail("", to)
	msg := mail.NewSingleEmail(from, subject, recipient, plainText(html), html)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("📭 Email not sent (no transport)", zap.String("to", to), zap.String("subject", subject))
	return nil
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

func plainText(html string) string {
	if i := strings.Index(html, "<body>"); i >= 0 {
		html = html[i:]
	}
	text := tagPattern.ReplaceAllString(html, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
