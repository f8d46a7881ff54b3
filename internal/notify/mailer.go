package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"skyops/copilot/internal/logging"
)

// Mailer sends a single HTML email to an explicit recipient. Passenger
// self-service vouchers go through this rather than the ops notifier.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer delivers over plain-auth SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewMailerFromEnv mirrors NewFromEnv: SMTP when credentials exist, log
// simulation otherwise.
func NewMailerFromEnv() Mailer {
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if user == "" || pass == "" {
		return &LogMailer{}
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{host: host, port: port, username: user, password: pass}
}

func (m *SMTPMailer) SendMail(ctx context.Context, to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.username, to, subject))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.username, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer records outbound mail instead of delivering it.
type LogMailer struct{}

var _ Mailer = (*LogMailer)(nil)

func (m *LogMailer) SendMail(ctx context.Context, to, subject, htmlBody string) error {
	logging.Info("simulated passenger email", "to", to, "subject", subject)
	return nil
}
