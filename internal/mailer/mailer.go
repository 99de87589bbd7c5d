package mailer

import (
	"crypto/tls"
	"fmt"

	"github.com/tonzxz/ipophil-dms-sub000/internal/config"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends notification mail over SMTP. It is optional: with no SMTP
// host configured Send reports not-configured and callers log and move on.
type Mailer struct {
	host          string
	port          int
	user          string
	password      string
	from          string
	skipTLSVerify bool
}

func New(cfg config.Config) *Mailer {
	return &Mailer{
		host:          cfg.SMTPHost,
		port:          cfg.SMTPPort,
		user:          cfg.SMTPUser,
		password:      cfg.SMTPPassword,
		from:          cfg.SMTPFrom,
		skipTLSVerify: cfg.SMTPSkipTLSVerify,
	}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != ""
}

func (m *Mailer) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.host, m.port, m.user, m.password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify,
	}

	return d.DialAndSend(msg)
}
