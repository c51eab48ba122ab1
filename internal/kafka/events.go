package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventTicketPurchased     = "ticket_purchased"
	EventFlightStatusChanged = "flight_status_changed"
)

type TicketEvent struct {
	Type           string    `json:"type"`
	TicketID       string    `json:"ticket_id"`
	AirlineName    string    `json:"airline_name"`
	FlightNumber   string    `json:"flight_number"`
	CustomerEmail  string    `json:"customer_email"`
	AgentEmail     string    `json:"agent_email,omitempty"`
	PriceCents     int64     `json:"price_cents"`
	RemainingSeats int       `json:"remaining_seats"`
	PurchasedAt    time.Time `json:"purchased_at"`
}

type FlightStatusEvent struct {
	Type         string    `json:"type"`
	AirlineName  string    `json:"airline_name"`
	FlightNumber string    `json:"flight_number"`
	Status       string    `json:"status"`
	Passengers   []string  `json:"passengers,omitempty"`
	ChangedAt    time.Time `json:"changed_at"`
}

// DecodeEvent returns a *TicketEvent or *FlightStatusEvent depending on the
// payload's type field.
func DecodeEvent(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var event any
	switch head.Type {
	case EventTicketPurchased:
		event = &TicketEvent{}
	case EventFlightStatusChanged:
		event = &FlightStatusEvent{}
	default:
		return nil, fmt.Errorf("unknown event type %q", head.Type)
	}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return event, nil
}
