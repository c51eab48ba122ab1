package domain

import "time"

const TicketStatusConfirmed = "Confirmed"

type Ticket struct {
	ID           string `json:"ticket_id"`
	PriceCents   int64  `json:"ticket_price_cents"`
	Status       string `json:"ticket_status"`
	AirlineName  string `json:"airline_name"`
	FlightNumber string `json:"flight_number"`
}

// Purchase links a ticket to its owner and, when sold through an agent, to the agent.
type Purchase struct {
	Ticket         Ticket    `json:"ticket"`
	CustomerEmail  string    `json:"customer_email"`
	AgentEmail     string    `json:"agent_email,omitempty"`
	PurchasedAt    time.Time `json:"purchase_date"`
	RemainingSeats int       `json:"remaining_seats"`
}

// PurchasedFlight is a row of the "my flights" style listings.
type PurchasedFlight struct {
	Flight
	TicketID      string    `json:"ticket_id"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	PurchasedAt   time.Time `json:"purchase_date"`
}

type Capacity struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	RemainingSeats int    `json:"remaining_seats"`
}

// Reconciliation compares the cached seat counter of a flight with the count
// derived from its airplane capacity and issued tickets.
type Reconciliation struct {
	FlightKey
	SeatCapacity   int  `json:"seat_capacity"`
	TicketsSold    int  `json:"tickets_sold"`
	DerivedSeats   int  `json:"derived_remaining_seats"`
	RemainingSeats int  `json:"remaining_seats"`
	Consistent     bool `json:"consistent"`
}
