package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/samiserrag/denver-songwriters-collective-sub014/config"
)

// Mailer sends plain-text email over SMTP. When disabled in config it
// becomes a no-op that logs what it would have sent, which keeps local
// development from needing an SMTP server.
type Mailer struct {
	cfg *config.EmailConfig
}

func NewMailer(cfg *config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m.cfg == nil || !m.cfg.Enabled {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Debug("email sending disabled, skipping")
		return nil
	}

	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
