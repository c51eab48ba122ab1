package domain

import "time"

// CommissionRate is the share of the ticket price credited to the selling agent.
const CommissionRate = 0.10

func Commission(priceCents int64) int64 {
	return int64(float64(priceCents)*CommissionRate + 0.5)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

type MonthlyAmount struct {
	Month       string `json:"month"`
	AmountCents int64  `json:"amount_cents"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Spending struct {
	From       time.Time       `json:"start_date"`
	To         time.Time       `json:"end_date"`
	TotalCents int64           `json:"total_cents"`
	ByMonth    []MonthlyAmount `json:"by_month"`
}

type CustomerCount struct {
	CustomerEmail string `json:"customer_email"`
	Tickets       int    `json:"tickets"`
}

type CustomerCommission struct {
	CustomerEmail   string `json:"customer_email"`
	CommissionCents int64  `json:"commission_cents"`
}

type AgentAnalytics struct {
	TotalCommissionCents   int64                `json:"total_commission_cents"`
	AverageCommissionCents int64                `json:"average_commission_cents"`
	TicketCount            int                  `json:"ticket_count"`
	TopByTickets           []CustomerCount      `json:"top_by_tickets"`
	TopByCommission        []CustomerCommission `json:"top_by_commission"`
}

type AgentSales struct {
	AgentEmail      string `json:"agent_email"`
	Tickets         int    `json:"ticket_count"`
	CommissionCents int64  `json:"commission_cents"`
}

type StatusCount struct {
	Status FlightStatus `json:"status"`
	Count  int          `json:"count"`
}

type DestinationCount struct {
	Airport string `json:"arrival_airport"`
	Count   int    `json:"count"`
}

type StaffAnalytics struct {
	AirlineName          string             `json:"airline_name"`
	TopAgentsMonth       []AgentSales       `json:"top_agents_month"`
	TopAgentsYear        []AgentSales       `json:"top_agents_year"`
	MostFrequentCustomer *CustomerCount     `json:"most_frequent_customer,omitempty"`
	TicketsByMonth       []MonthlyCount     `json:"tickets_by_month"`
	StatusCounts         []StatusCount      `json:"status_counts"`
	TopDestinations3M    []DestinationCount `json:"top_destinations_3m"`
	TopDestinations1Y    []DestinationCount `json:"top_destinations_1y"`
}

type Passenger struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	TicketID string `json:"ticket_id"`
}

// HistoryFilter narrows purchase history listings. Dates are inclusive calendar days.
type HistoryFilter struct {
	From        *time.Time
	To          *time.Time
	Origin      string
	Destination string
}
