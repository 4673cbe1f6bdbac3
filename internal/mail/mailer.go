package mail

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/avsuhas/hoa-backend/internal/config"
	"github.com/avsuhas/hoa-backend/internal/domain"
)

// Mailer sends transactional account email. Callers treat every send as
// best-effort; a failure is logged and never fails the triggering request.
type Mailer interface {
	SendWelcome(user domain.User) error
	SendPasswordSetup(user domain.User, setupToken string) error
}

// Compile-time interface assertion.
var _ Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers over SMTP via gomail.
type SMTPMailer struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg config.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendWelcome greets a freshly registered user.
func (m *SMTPMailer) SendWelcome(user domain.User) error {
	return m.send(user.Email, "Welcome to your HOA portal", welcomeBody(user))
}

// SendPasswordSetup mails the set-password link minted by an approval.
func (m *SMTPMailer) SendPasswordSetup(user domain.User, setupToken string) error {
	return m.send(user.Email, "Set up your HOA account password", setupBody(user, m.setupLink(setupToken)))
}

func (m *SMTPMailer) setupLink(setupToken string) string {
	return strings.TrimRight(m.cfg.AppBaseURL, "/") + "/set-password?token=" + setupToken
}

func welcomeBody(user domain.User) string {
	return fmt.Sprintf(
		"Hello %s,\r\n\r\nYour HOA resident account is ready. "+
			"You can sign in right away with this email address and the password you chose.\r\n",
		user.FirstName,
	)
}

func setupBody(user domain.User, link string) string {
	return fmt.Sprintf(
		"Hello %s,\r\n\r\nYour account has been approved with the %s role. "+
			"Set your password within 24 hours using the link below:\r\n\r\n%s\r\n",
		user.FirstName, user.Role, link,
	)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.MailFrom == "" {
		m.logger.Warn("smtp config missing, skip email", zap.String("subject", subject))
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
