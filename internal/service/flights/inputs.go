package flights

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
)

const dateLayout = "2006-01-02"

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

type LiveSearchInput struct {
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	Date        string `form:"date"`
}

type StatusInput struct {
	Airline      string `form:"airline"`
	FlightNumber string `form:"flight_number"`
	Date         string `form:"date"`
}

// SearchInput is the customer and agent search form. Date is required.
type SearchInput struct {
	Origin      string `form:"origin" json:"origin"`
	Destination string `form:"destination" json:"destination"`
	Date        string `form:"date" json:"date"`
}

// RangeInput filters listings by inclusive calendar days and airports.
type RangeInput struct {
	StartDate   string `form:"start_date" json:"start_date"`
	EndDate     string `form:"end_date" json:"end_date"`
	Origin      string `form:"origin" json:"origin"`
	Destination string `form:"destination" json:"destination"`
}

type AirplaneInput struct {
	AirplaneID   string `form:"airplane_id" json:"airplane_id"`
	SeatCapacity string `form:"seat_capacity" json:"seat_capacity"`
}

type FlightInput struct {
	FlightNumber     string `form:"flight_number" json:"flight_number"`
	DepartureAirport string `form:"departure_airport" json:"departure_airport"`
	ArrivalAirport   string `form:"arrival_airport" json:"arrival_airport"`
	DepartureTime    string `form:"departure_time" json:"departure_time"`
	ArrivalTime      string `form:"arrival_time" json:"arrival_time"`
	Price            string `form:"price" json:"price"`
	Status           string `form:"status" json:"status"`
	AirplaneAssigned string `form:"airplane_assigned" json:"airplane_assigned"`
}

type StatusUpdate struct {
	FlightNumber string `form:"flight_number" json:"flight_number"`
	Status       string `form:"status" json:"status"`
}

// ParseDate parses a YYYY-MM-DD value in loc. Empty input yields nil.
func ParseDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, domain.Invalid("invalid date " + strconv.Quote(value) + ", expected YYYY-MM-DD")
	}
	return &t, nil
}

func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Invalid("invalid date and time " + strconv.Quote(value))
}

// ParsePriceCents converts a decimal amount with at most two fractional
// digits into cents.
func ParsePriceCents(value string) (int64, error) {
	value = strings.TrimSpace(value)
	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" || len(frac) > 2 {
		return 0, domain.Invalid("invalid price")
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || units > math.MaxInt64/100 {
		return 0, domain.Invalid("invalid price")
	}
	var cents int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || c < 0 {
			return 0, domain.Invalid("invalid price")
		}
		cents = c
	}
	return units*100 + cents, nil
}
