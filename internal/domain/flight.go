package domain

import "time"

type FlightStatus string

const (
	FlightStatusUpcoming   FlightStatus = "upcoming"
	FlightStatusInProgress FlightStatus = "in-progress"
	FlightStatusDelayed    FlightStatus = "delayed"
	FlightStatusArrived    FlightStatus = "arrived"
	FlightStatusCancelled  FlightStatus = "cancelled"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusUpcoming, FlightStatusInProgress, FlightStatusDelayed, FlightStatusArrived, FlightStatusCancelled:
		return true
	}
	return false
}

// FlightKey identifies a flight within the whole system.
type FlightKey struct {
	AirlineName  string `json:"airline_name"`
	FlightNumber string `json:"flight_number"`
}

type Flight struct {
	AirlineName      string       `json:"airline_name"`
	FlightNumber     string       `json:"flight_number"`
	DepartureAirport string       `json:"departure_airport"`
	DepartureCity    string       `json:"departure_city,omitempty"`
	DepartureTime    time.Time    `json:"departure_time"`
	ArrivalAirport   string       `json:"arrival_airport"`
	ArrivalCity      string       `json:"arrival_city,omitempty"`
	ArrivalTime      time.Time    `json:"arrival_time"`
	PriceCents       int64        `json:"price_cents"`
	Status           FlightStatus `json:"status"`
	AirplaneID       string       `json:"airplane_assigned"`
	RemainingSeats   int          `json:"remaining_seats"`
}

func (f Flight) Key() FlightKey {
	return FlightKey{AirlineName: f.AirlineName, FlightNumber: f.FlightNumber}
}

type Airplane struct {
	AirlineName  string `json:"airline_name"`
	AirplaneID   string `json:"airplane_id"`
	SeatCapacity int    `json:"seat_capacity"`
}

type Airport struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// AirportOption is an airport that currently has upcoming departures or arrivals.
type AirportOption struct {
	Code string `json:"code"`
	City string `json:"city"`
}

type AirportOptions struct {
	Origins      []AirportOption `json:"origins"`
	Destinations []AirportOption `json:"destinations"`
}

// FlightFilter narrows flight listings. Zero values mean "no constraint".
type FlightFilter struct {
	AirlineNames []string
	Origin       string
	Destination  string
	From         *time.Time
	To           *time.Time
	Date         *time.Time
	Status       []FlightStatus
	Limit        uint64
}
