// Package notify delivers passenger notifications. Delivery is best effort
// by contract: resolution state changes never wait on, or fail because of,
// an email.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/logging"
)

// SMTPNotifier sends passenger emails over SMTP.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	to       string
}

var _ engine.Notifier = (*SMTPNotifier)(nil)

// NewFromEnv returns an SMTP notifier when credentials are configured, or a
// log-only notifier otherwise so local runs simulate delivery.
func NewFromEnv() engine.Notifier {
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if user == "" || pass == "" {
		logging.Info("SMTP credentials not configured, notifications will be simulated")
		return &LogNotifier{}
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	to := os.Getenv("NOTIFY_TO")
	if to == "" {
		to = user
	}
	return &SMTPNotifier{host: host, port: port, username: user, password: pass, to: to}
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg engine.Notification) error {
	subject, headerText := subjectFor(msg)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", n.username, n.to, subject))
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	body.WriteString(fmt.Sprintf(`<html><body>
<h2>%s</h2>
<p>Dear Passenger,</p>
<p><strong>Route:</strong> %s &rarr; %s</p>
<p><strong>Reason:</strong> %s</p>
<p><strong>Details:</strong> %s</p>
<p>Our operations team is working to minimize disruption. We apologize for the inconvenience.</p>
</body></html>`, headerText, msg.Origin, msg.Destination, msg.Reason, msg.Detail))

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	addr := n.host + ":" + n.port
	if err := smtp.SendMail(addr, auth, n.username, []string{n.to}, []byte(body.String())); err != nil {
		return fmt.Errorf("send notification for %s: %w", msg.FlightID, err)
	}
	return nil
}

func subjectFor(msg engine.Notification) (subject, header string) {
	switch msg.StatusType {
	case "CANCELLED":
		return fmt.Sprintf("URGENT: Flight %s Cancelled", msg.FlightID), "Flight Cancelled"
	case "DELAYED":
		return fmt.Sprintf("Flight %s Delayed", msg.FlightID), "Flight Delayed"
	case "SWAPPED", "RESCHEDULED":
		return fmt.Sprintf("Flight %s Schedule Change", msg.FlightID), "Itinerary Updated"
	}
	return fmt.Sprintf("Flight %s: Important Status Update", msg.FlightID), "Status Update"
}

// LogNotifier records notifications instead of delivering them.
type LogNotifier struct{}

var _ engine.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(ctx context.Context, msg engine.Notification) error {
	logging.Info("simulated passenger notification",
		"flight_id", msg.FlightID,
		"status_type", msg.StatusType,
		"reason", msg.Reason,
	)
	return nil
}
