package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	Get(ctx context.Context, key domain.FlightKey) (*domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	LiveSearch(ctx context.Context, q LiveSearchQuery) ([]domain.Flight, error)
	StatusBoard(ctx context.Context, q StatusQuery) ([]domain.Flight, error)
	AirportOptions(ctx context.Context, now time.Time) (domain.AirportOptions, error)
	Create(ctx context.Context, flight domain.Flight) (*domain.Flight, error)
	UpdateStatus(ctx context.Context, key domain.FlightKey, status domain.FlightStatus) error
	Capacity(ctx context.Context, key domain.FlightKey) (domain.Capacity, error)
	Reconcile(ctx context.Context, key domain.FlightKey) (*domain.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error)
}

// LiveSearchQuery matches origin and destination against airport codes, city
// names and city aliases.
type LiveSearchQuery struct {
	Origin      string
	Destination string
	Date        *time.Time
	Now         time.Time
	Limit       uint64
}

type StatusQuery struct {
	AirlineName  string
	FlightNumber string
	Date         *time.Time
	Limit        uint64
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.airline_name, f.flight_number, f.departure_airport, f.departure_time, f.arrival_airport, f.arrival_time, f.price_cents, f.status, f.airplane_assigned, f.remaining_seats`

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.AirlineName, &f.FlightNumber, &f.DepartureAirport, &f.DepartureTime, &f.ArrivalAirport, &f.ArrivalTime, &f.PriceCents, &f.Status, &f.AirplaneID, &f.RemainingSeats)
	return f, err
}

func scanFlightWithCities(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.AirlineName, &f.FlightNumber, &f.DepartureAirport, &f.DepartureTime, &f.ArrivalAirport, &f.ArrivalTime, &f.PriceCents, &f.Status, &f.AirplaneID, &f.RemainingSeats, &f.DepartureCity, &f.ArrivalCity)
	return f, err
}

func (r *PGFlightRepository) Get(ctx context.Context, key domain.FlightKey) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flight f WHERE f.airline_name=$1 AND f.flight_number=$2`, key.AirlineName, key.FlightNumber)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	return queryAll(ctx, r.db, flightSearchQuery(filter), scanFlight)
}

func flightSearchQuery(filter domain.FlightFilter) sq.SelectBuilder {
	b := psql.Select(flightColumns).From("flight f")
	if filter.AirlineNames != nil {
		b = b.Where(sq.Eq{"f.airline_name": filter.AirlineNames})
	}
	if len(filter.Status) > 0 {
		b = b.Where(sq.Eq{"f.status": statusStrings(filter.Status)})
	}
	if filter.Origin != "" {
		b = b.Where(sq.Eq{"f.departure_airport": filter.Origin})
	}
	if filter.Destination != "" {
		b = b.Where(sq.Eq{"f.arrival_airport": filter.Destination})
	}
	b = whereDay(b, "f.departure_time", filter.Date)
	if filter.From != nil {
		b = b.Where(sq.GtOrEq{"f.departure_time": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(sq.Lt{"f.departure_time": *filter.To})
	}
	b = b.OrderBy("f.departure_time ASC")
	if filter.Limit > 0 {
		b = b.Limit(filter.Limit)
	}
	return b
}

func (r *PGFlightRepository) LiveSearch(ctx context.Context, q LiveSearchQuery) ([]domain.Flight, error) {
	return queryAll(ctx, r.db, liveSearchQuery(q), scanFlightWithCities)
}

func liveSearchQuery(q LiveSearchQuery) sq.SelectBuilder {
	b := psql.Select(flightColumns, "da.city", "aa.city").
		From("flight f").
		Join("airport da ON f.departure_airport = da.name").
		Join("airport aa ON f.arrival_airport = aa.name").
		Where(sq.Eq{"f.status": string(domain.FlightStatusUpcoming)}).
		Where(sq.Gt{"f.departure_time": q.Now})
	if q.Origin != "" {
		b = b.Where(placeMatch("f.departure_airport", "da.city", q.Origin))
	}
	if q.Destination != "" {
		b = b.Where(placeMatch("f.arrival_airport", "aa.city", q.Destination))
	}
	b = whereDay(b, "f.departure_time", q.Date)
	b = b.OrderBy("f.departure_time ASC")
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	return b
}

// likePattern wraps term for a substring match with its LIKE metacharacters
// escaped, so user input only ever matches literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func placeMatch(airportCol, cityCol, term string) sq.Sqlizer {
	like := likePattern(term)
	return sq.Expr(
		"("+airportCol+" ILIKE ? OR "+cityCol+" ILIKE ? OR "+cityCol+" IN (SELECT ca.city_name FROM city_alias ca WHERE ca.alias_name = ?))",
		like, like, term,
	)
}

func (r *PGFlightRepository) StatusBoard(ctx context.Context, q StatusQuery) ([]domain.Flight, error) {
	return queryAll(ctx, r.db, statusBoardQuery(q), scanFlightWithCities)
}

func statusBoardQuery(q StatusQuery) sq.SelectBuilder {
	b := psql.Select(flightColumns, "da.city", "aa.city").
		From("flight f").
		Join("airport da ON f.departure_airport = da.name").
		Join("airport aa ON f.arrival_airport = aa.name").
		Where(sq.Eq{"f.status": []string{string(domain.FlightStatusInProgress), string(domain.FlightStatusDelayed)}})
	if q.AirlineName != "" {
		b = b.Where(sq.ILike{"f.airline_name": likePattern(q.AirlineName)})
	}
	if q.FlightNumber != "" {
		b = b.Where(sq.ILike{"f.flight_number": likePattern(q.FlightNumber)})
	}
	b = whereDay(b, "f.departure_time", q.Date)
	b = b.OrderBy("f.departure_time DESC")
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	return b
}

func (r *PGFlightRepository) AirportOptions(ctx context.Context, now time.Time) (domain.AirportOptions, error) {
	scan := func(row pgx.Row) (domain.AirportOption, error) {
		var o domain.AirportOption
		err := row.Scan(&o.Code, &o.City)
		return o, err
	}
	origins, err := collect(ctx, r.db, `SELECT DISTINCT f.departure_airport, a.city FROM flight f JOIN airport a ON f.departure_airport = a.name WHERE f.status = 'upcoming' AND f.departure_time > $1 ORDER BY a.city`, []any{now}, scan)
	if err != nil {
		return domain.AirportOptions{}, err
	}
	destinations, err := collect(ctx, r.db, `SELECT DISTINCT f.arrival_airport, a.city FROM flight f JOIN airport a ON f.arrival_airport = a.name WHERE f.status = 'upcoming' AND f.departure_time > $1 ORDER BY a.city`, []any{now}, scan)
	if err != nil {
		return domain.AirportOptions{}, err
	}
	return domain.AirportOptions{Origins: origins, Destinations: destinations}, nil
}

// Create inserts a flight whose seat counter starts at the assigned airplane's
// capacity.
func (r *PGFlightRepository) Create(ctx context.Context, flight domain.Flight) (*domain.Flight, error) {
	if flight.Status == "" {
		flight.Status = domain.FlightStatusUpcoming
	}
	row := r.db.QueryRow(ctx, `INSERT INTO flight (airline_name, flight_number, departure_airport, departure_time, arrival_airport, arrival_time, price_cents, status, airplane_assigned, remaining_seats)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, a.airplane_id, a.seat_capacity
		FROM airplane a WHERE a.airline_name = $1 AND a.airplane_id = $9
		RETURNING remaining_seats`,
		flight.AirlineName, flight.FlightNumber, flight.DepartureAirport, flight.DepartureTime, flight.ArrivalAirport, flight.ArrivalTime, flight.PriceCents, flight.Status, flight.AirplaneID)
	if err := row.Scan(&flight.RemainingSeats); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAirplaneNotFound
		}
		return nil, storeErr("create flight", err)
	}
	return &flight, nil
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, key domain.FlightKey, status domain.FlightStatus) error {
	res, err := r.db.Exec(ctx, `UPDATE flight SET status=$1 WHERE airline_name=$2 AND flight_number=$3`, status, key.AirlineName, key.FlightNumber)
	if err != nil {
		return storeErr("update flight status", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// Capacity reads the seat counter. A flight whose airplane cannot be resolved
// is reported as not found.
func (r *PGFlightRepository) Capacity(ctx context.Context, key domain.FlightKey) (domain.Capacity, error) {
	var remaining int
	err := r.db.QueryRow(ctx, `SELECT f.remaining_seats FROM flight f
		JOIN airplane a ON a.airline_name = f.airline_name AND a.airplane_id = f.airplane_assigned
		WHERE f.airline_name=$1 AND f.flight_number=$2`, key.AirlineName, key.FlightNumber).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Capacity{Reason: domain.ErrFlightNotFound.Error()}, nil
		}
		return domain.Capacity{}, fmt.Errorf("read capacity: %w", err)
	}
	if remaining <= 0 {
		return domain.Capacity{Reason: domain.ErrNoSeats.Error()}, nil
	}
	return domain.Capacity{Allowed: true, RemainingSeats: remaining}, nil
}

const reconcileQuery = `SELECT f.airline_name, f.flight_number, a.seat_capacity, COUNT(t.ticket_id), f.remaining_seats
	FROM flight f
	JOIN airplane a ON a.airline_name = f.airline_name AND a.airplane_id = f.airplane_assigned
	LEFT JOIN ticket t ON t.airline_name = f.airline_name AND t.flight_number = f.flight_number`

func scanReconciliation(row pgx.Row) (domain.Reconciliation, error) {
	var rec domain.Reconciliation
	if err := row.Scan(&rec.AirlineName, &rec.FlightNumber, &rec.SeatCapacity, &rec.TicketsSold, &rec.RemainingSeats); err != nil {
		return rec, err
	}
	rec.DerivedSeats = rec.SeatCapacity - rec.TicketsSold
	rec.Consistent = rec.DerivedSeats == rec.RemainingSeats
	return rec, nil
}

func (r *PGFlightRepository) Reconcile(ctx context.Context, key domain.FlightKey) (*domain.Reconciliation, error) {
	row := r.db.QueryRow(ctx, reconcileQuery+`
	WHERE f.airline_name=$1 AND f.flight_number=$2
	GROUP BY f.airline_name, f.flight_number, a.seat_capacity, f.remaining_seats`, key.AirlineName, key.FlightNumber)
	rec, err := scanReconciliation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ReconcileAll returns only the flights whose counter disagrees with the
// ticket count.
func (r *PGFlightRepository) ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error) {
	return collect(ctx, r.db, reconcileQuery+`
	GROUP BY f.airline_name, f.flight_number, a.seat_capacity, f.remaining_seats
	HAVING a.seat_capacity - COUNT(t.ticket_id) <> f.remaining_seats
	ORDER BY f.airline_name, f.flight_number`, nil, scanReconciliation)
}

// whereDay restricts col to the calendar day of day, in day's location.
func whereDay(b sq.SelectBuilder, col string, day *time.Time) sq.SelectBuilder {
	if day == nil {
		return b
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return b.Where(sq.GtOrEq{col: start}).Where(sq.Lt{col: start.AddDate(0, 0, 1)})
}

func statusStrings(statuses []domain.FlightStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

var _ FlightRepository = (*PGFlightRepository)(nil)
