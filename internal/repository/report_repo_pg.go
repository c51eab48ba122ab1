package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type ReportRepository interface {
	CustomerUpcoming(ctx context.Context, customerEmail string, now time.Time) ([]domain.PurchasedFlight, error)
	CustomerFlights(ctx context.Context, customerEmail string, filter domain.HistoryFilter) ([]domain.PurchasedFlight, error)
	CustomerSpending(ctx context.Context, customerEmail string, from, to time.Time) (int64, []domain.MonthlyAmount, error)

	AgentRecentSales(ctx context.Context, agentEmail string, limit uint64) ([]domain.PurchasedFlight, error)
	AgentSales(ctx context.Context, agentEmail string, filter domain.HistoryFilter) ([]domain.PurchasedFlight, error)
	AgentCommission(ctx context.Context, agentEmail string, since time.Time) (total, average int64, count int, err error)
	AgentTopCustomersByTickets(ctx context.Context, agentEmail string, since time.Time, limit int) ([]domain.CustomerCount, error)
	AgentTopCustomersByCommission(ctx context.Context, agentEmail string, since time.Time, limit int) ([]domain.CustomerCommission, error)

	Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error)
	CustomerFlightsOnAirline(ctx context.Context, airlineName, customerEmail string) ([]domain.PurchasedFlight, error)
	TopAgents(ctx context.Context, airlineName string, since time.Time, limit int) ([]domain.AgentSales, error)
	MostFrequentCustomer(ctx context.Context, airlineName string, since time.Time) (*domain.CustomerCount, error)
	TicketsByMonth(ctx context.Context, airlineName string) ([]domain.MonthlyCount, error)
	StatusCounts(ctx context.Context, airlineName string) ([]domain.StatusCount, error)
	TopDestinations(ctx context.Context, airlineName string, since time.Time, limit int) ([]domain.DestinationCount, error)
}

type PGReportRepository struct {
	db DB
}

func NewReportRepository(db DB) ReportRepository {
	return &PGReportRepository{db: db}
}

const purchasedFrom = `purchases p
	JOIN ticket t ON p.ticket_id = t.ticket_id
	JOIN flight f ON t.airline_name = f.airline_name AND t.flight_number = f.flight_number`

func scanPurchasedFlight(row pgx.Row) (domain.PurchasedFlight, error) {
	var pf domain.PurchasedFlight
	f := &pf.Flight
	err := row.Scan(&f.AirlineName, &f.FlightNumber, &f.DepartureAirport, &f.DepartureTime, &f.ArrivalAirport, &f.ArrivalTime, &f.PriceCents, &f.Status, &f.AirplaneID, &f.RemainingSeats,
		&pf.TicketID, &pf.CustomerEmail, &pf.PurchasedAt)
	return pf, err
}

func purchasedFlights() sq.SelectBuilder {
	return psql.Select(flightColumns, "t.ticket_id", "p.customer_email", "p.purchase_date").From(purchasedFrom)
}

func (r *PGReportRepository) CustomerUpcoming(ctx context.Context, customerEmail string, now time.Time) ([]domain.PurchasedFlight, error) {
	b := purchasedFlights().
		Where(sq.Eq{"p.customer_email": customerEmail}).
		Where(sq.GtOrEq{"f.departure_time": now}).
		OrderBy("f.departure_time ASC")
	return queryAll(ctx, r.db, b, scanPurchasedFlight)
}

func (r *PGReportRepository) CustomerFlights(ctx context.Context, customerEmail string, filter domain.HistoryFilter) ([]domain.PurchasedFlight, error) {
	b := purchasedFlights().Where(sq.Eq{"p.customer_email": customerEmail})
	b = historyFilter(b, "f.departure_time", filter).OrderBy("f.departure_time DESC")
	return queryAll(ctx, r.db, b, scanPurchasedFlight)
}

func (r *PGReportRepository) CustomerSpending(ctx context.Context, customerEmail string, from, to time.Time) (int64, []domain.MonthlyAmount, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(t.ticket_price_cents), 0)
		FROM purchases p JOIN ticket t ON p.ticket_id = t.ticket_id
		WHERE p.customer_email=$1 AND p.purchase_date >= $2 AND p.purchase_date < $3`, customerEmail, from, to).Scan(&total)
	if err != nil {
		return 0, nil, err
	}

	months, err := collect(ctx, r.db, `SELECT to_char(p.purchase_date, 'YYYY-MM') AS month, COALESCE(SUM(t.ticket_price_cents), 0)
		FROM purchases p JOIN ticket t ON p.ticket_id = t.ticket_id
		WHERE p.customer_email=$1 AND p.purchase_date >= $2 AND p.purchase_date < $3
		GROUP BY month ORDER BY month`, []any{customerEmail, from, to}, func(row pgx.Row) (domain.MonthlyAmount, error) {
		var m domain.MonthlyAmount
		err := row.Scan(&m.Month, &m.AmountCents)
		return m, err
	})
	if err != nil {
		return 0, nil, err
	}
	return total, months, nil
}

func (r *PGReportRepository) AgentRecentSales(ctx context.Context, agentEmail string, limit uint64) ([]domain.PurchasedFlight, error) {
	b := purchasedFlights().
		Where(sq.Eq{"p.agent_email": agentEmail}).
		OrderBy("p.purchase_date DESC").
		Limit(limit)
	return queryAll(ctx, r.db, b, scanPurchasedFlight)
}

func (r *PGReportRepository) AgentSales(ctx context.Context, agentEmail string, filter domain.HistoryFilter) ([]domain.PurchasedFlight, error) {
	b := purchasedFlights().Where(sq.Eq{"p.agent_email": agentEmail})
	b = historyFilter(b, "p.purchase_date", filter).OrderBy("p.purchase_date DESC")
	return queryAll(ctx, r.db, b, scanPurchasedFlight)
}

func (r *PGReportRepository) AgentCommission(ctx context.Context, agentEmail string, since time.Time) (int64, int64, int, error) {
	var (
		total, average int64
		count          int
	)
	err := r.db.QueryRow(ctx, `SELECT
			COALESCE(ROUND(SUM(t.ticket_price_cents) * 0.1), 0)::bigint,
			COALESCE(ROUND(AVG(t.ticket_price_cents) * 0.1), 0)::bigint,
			COUNT(*)
		FROM purchases p JOIN ticket t ON p.ticket_id = t.ticket_id
		WHERE p.agent_email=$1 AND p.purchase_date >= $2`, agentEmail, since).Scan(&total, &average, &count)
	return total, average, count, err
}

func (r *PGReportRepository) AgentTopCustomersByTickets(ctx context.Context, agentEmail string, since time.Time, limit int) ([]domain.CustomerCount, error) {
	return collect(ctx, r.db, `SELECT p.customer_email, COUNT(*) AS cnt
		FROM purchases p
		WHERE p.agent_email=$1 AND p.purchase_date >= $2
		GROUP BY p.customer_email ORDER BY cnt DESC, p.customer_email LIMIT $3`, []any{agentEmail, since, limit}, scanCustomerCount)
}

func (r *PGReportRepository) AgentTopCustomersByCommission(ctx context.Context, agentEmail string, since time.Time, limit int) ([]domain.CustomerCommission, error) {
	return collect(ctx, r.db, `SELECT p.customer_email, COALESCE(ROUND(SUM(t.ticket_price_cents) * 0.1), 0)::bigint AS commission
		FROM purchases p JOIN ticket t ON p.ticket_id = t.ticket_id
		WHERE p.agent_email=$1 AND p.purchase_date >= $2
		GROUP BY p.customer_email ORDER BY commission DESC, p.customer_email LIMIT $3`, []any{agentEmail, since, limit}, func(row pgx.Row) (domain.CustomerCommission, error) {
		var c domain.CustomerCommission
		err := row.Scan(&c.CustomerEmail, &c.CommissionCents)
		return c, err
	})
}

func (r *PGReportRepository) Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error) {
	return collect(ctx, r.db, `SELECT c.email, c.name, p.ticket_id
		FROM purchases p
		JOIN customer c ON p.customer_email = c.email
		JOIN ticket t ON p.ticket_id = t.ticket_id
		WHERE t.airline_name=$1 AND t.flight_number=$2
		ORDER BY c.name, p.ticket_id`, []any{key.AirlineName, key.FlightNumber}, func(row pgx.Row) (domain.Passenger, error) {
		var p domain.Passenger
		err := row.Scan(&p.Email, &p.Name, &p.TicketID)
		return p, err
	})
}

func (r *PGReportRepository) CustomerFlightsOnAirline(ctx context.Context, airlineName, customerEmail string) ([]domain.PurchasedFlight, error) {
	b := purchasedFlights().
		Where(sq.Eq{"p.customer_email": customerEmail}).
		Where(sq.Eq{"f.airline_name": airlineName}).
		OrderBy("f.departure_time DESC")
	return queryAll(ctx, r.db, b, scanPurchasedFlight)
}

func (r *PGReportRepository) TopAgents(ctx context.Context, airlineName string, since time.Time, limit int) ([]domain.AgentSales, error) {
	return collect(ctx, r.db, `SELECT p.agent_email, COUNT(*) AS ticket_count, COALESCE(ROUND(SUM(t.ticket_price_cents) * 0.1), 0)::bigint
		FROM `+purchasedFrom+`
		WHERE f.airline_name=$1 AND p.purchase_date >= $2 AND p.agent_email IS NOT NULL
		GROUP BY p.agent_email ORDER BY ticket_count DESC, p.agent_email LIMIT $3`, []any{airlineName, since, limit}, func(row pgx.Row) (domain.AgentSales, error) {
		var a domain.AgentSales
		err := row.Scan(&a.AgentEmail, &a.Tickets, &a.CommissionCents)
		return a, err
	})
}

func (r *PGReportRepository) MostFrequentCustomer(ctx context.Context, airlineName string, since time.Time) (*domain.CustomerCount, error) {
	row := r.db.QueryRow(ctx, `SELECT p.customer_email, COUNT(*) AS cnt
		FROM `+purchasedFrom+`
		WHERE f.airline_name=$1 AND p.purchase_date >= $2
		GROUP BY p.customer_email ORDER BY cnt DESC, p.customer_email LIMIT 1`, airlineName, since)
	c, err := scanCustomerCount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGReportRepository) TicketsByMonth(ctx context.Context, airlineName string) ([]domain.MonthlyCount, error) {
	return collect(ctx, r.db, `SELECT to_char(p.purchase_date, 'YYYY-MM') AS month, COUNT(*)
		FROM `+purchasedFrom+`
		WHERE f.airline_name=$1
		GROUP BY month ORDER BY month`, []any{airlineName}, func(row pgx.Row) (domain.MonthlyCount, error) {
		var m domain.MonthlyCount
		err := row.Scan(&m.Month, &m.Count)
		return m, err
	})
}

func (r *PGReportRepository) StatusCounts(ctx context.Context, airlineName string) ([]domain.StatusCount, error) {
	return collect(ctx, r.db, `SELECT status, COUNT(*) FROM flight WHERE airline_name=$1 GROUP BY status ORDER BY status`, []any{airlineName}, func(row pgx.Row) (domain.StatusCount, error) {
		var s domain.StatusCount
		err := row.Scan(&s.Status, &s.Count)
		return s, err
	})
}

func (r *PGReportRepository) TopDestinations(ctx context.Context, airlineName string, since time.Time, limit int) ([]domain.DestinationCount, error) {
	return collect(ctx, r.db, `SELECT f.arrival_airport, COUNT(*) AS cnt
		FROM `+purchasedFrom+`
		WHERE f.airline_name=$1 AND p.purchase_date >= $2
		GROUP BY f.arrival_airport ORDER BY cnt DESC, f.arrival_airport LIMIT $3`, []any{airlineName, since, limit}, func(row pgx.Row) (domain.DestinationCount, error) {
		var d domain.DestinationCount
		err := row.Scan(&d.Airport, &d.Count)
		return d, err
	})
}

func scanCustomerCount(row pgx.Row) (domain.CustomerCount, error) {
	var c domain.CustomerCount
	err := row.Scan(&c.CustomerEmail, &c.Tickets)
	return c, err
}

// historyFilter applies inclusive day bounds on col plus airport filters.
func historyFilter(b sq.SelectBuilder, col string, filter domain.HistoryFilter) sq.SelectBuilder {
	if filter.From != nil {
		from := *filter.From
		b = b.Where(sq.GtOrEq{col: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())})
	}
	if filter.To != nil {
		to := *filter.To
		b = b.Where(sq.Lt{col: time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)})
	}
	if filter.Origin != "" {
		b = b.Where(sq.Eq{"f.departure_airport": filter.Origin})
	}
	if filter.Destination != "" {
		b = b.Where(sq.Eq{"f.arrival_airport": filter.Destination})
	}
	return b
}

var _ ReportRepository = (*PGReportRepository)(nil)
