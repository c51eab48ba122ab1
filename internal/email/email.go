package email

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
)

// Notification is one message delivered to one recipient.
type Notification struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Sender writes notifications to the log. There is no SMTP relay.
type Sender struct {
	now func() time.Time
}

func NewSender() *Sender {
	return &Sender{now: time.Now}
}

func (s *Sender) Send(ctx context.Context, n Notification) (Notification, error) {
	if n.To == "" {
		return n, fmt.Errorf("notification %q has no recipient", n.Subject)
	}
	n.SentAt = s.now()
	logger.FromContext(ctx).WithField("to", n.To).WithField("subject", n.Subject).Info("send email")
	return n, nil
}

// TicketNotifications addresses the customer and, for agent sales, the agent.
func TicketNotifications(e *kafka.TicketEvent) []Notification {
	subject := fmt.Sprintf("Ticket %s confirmed", e.TicketID)
	body := fmt.Sprintf("%s flight %s, ticket %s, price %s.", e.AirlineName, e.FlightNumber, e.TicketID, formatCents(e.PriceCents))
	out := []Notification{{To: e.CustomerEmail, Subject: subject, Body: body}}
	if e.AgentEmail != "" {
		out = append(out, Notification{
			To:      e.AgentEmail,
			Subject: fmt.Sprintf("Sale recorded for %s", e.CustomerEmail),
			Body:    body,
		})
	}
	return out
}

func FlightStatusNotifications(e *kafka.FlightStatusEvent) []Notification {
	out := make([]Notification, 0, len(e.Passengers))
	for _, to := range e.Passengers {
		out = append(out, Notification{
			To:      to,
			Subject: fmt.Sprintf("%s %s is %s", e.AirlineName, e.FlightNumber, e.Status),
			Body:    fmt.Sprintf("The status of %s flight %s changed to %s.", e.AirlineName, e.FlightNumber, e.Status),
		})
	}
	return out
}

func formatCents(c int64) string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
