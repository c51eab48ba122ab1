package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PurchaseRepository interface {
	Purchase(ctx context.Context, order PurchaseOrder) (*domain.Purchase, error)
}

// PurchaseOrder is a fully validated request to sell one ticket.
type PurchaseOrder struct {
	TicketID      string
	CustomerEmail string
	AgentEmail    string
	Flight        domain.FlightKey
	PurchasedAt   time.Time
}

type PGPurchaseRepository struct {
	db DB
}

func NewPurchaseRepository(db DB) PurchaseRepository {
	return &PGPurchaseRepository{db: db}
}

// Purchase runs the precondition probes, the conditional seat decrement and
// both inserts in one transaction. The decrement takes the flight row lock, so
// concurrent buyers of the same flight are serialised and the counter can never
// go below zero.
func (r *PGPurchaseRepository) Purchase(ctx context.Context, order PurchaseOrder) (*domain.Purchase, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, persistErr("begin purchase", err)
	}
	defer tx.Rollback(ctx)

	ok, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM customer WHERE email=$1)`, order.CustomerEmail)
	if err != nil {
		return nil, persistErr("lookup customer", err)
	}
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	if order.AgentEmail != "" {
		ok, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM work_with WHERE agent_email=$1 AND airline_name=$2)`, order.AgentEmail, order.Flight.AirlineName)
		if err != nil {
			return nil, persistErr("lookup affiliation", err)
		}
		if !ok {
			return nil, domain.ErrNotAuthorized
		}
	}

	var (
		price     int64
		remaining int
	)
	err = tx.QueryRow(ctx, `UPDATE flight f SET remaining_seats = f.remaining_seats - 1
		FROM airplane a
		WHERE a.airline_name = f.airline_name AND a.airplane_id = f.airplane_assigned
		AND f.airline_name=$1 AND f.flight_number=$2 AND f.remaining_seats > 0
		RETURNING f.price_cents, f.remaining_seats`, order.Flight.AirlineName, order.Flight.FlightNumber).Scan(&price, &remaining)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, persistErr("reserve seat", err)
		}
		found, err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM flight f
			JOIN airplane a ON a.airline_name = f.airline_name AND a.airplane_id = f.airplane_assigned
			WHERE f.airline_name=$1 AND f.flight_number=$2)`, order.Flight.AirlineName, order.Flight.FlightNumber)
		if err != nil {
			return nil, persistErr("lookup flight", err)
		}
		if !found {
			return nil, domain.ErrFlightNotFound
		}
		return nil, domain.ErrNoSeats
	}

	ticket := domain.Ticket{
		ID:           order.TicketID,
		PriceCents:   price,
		Status:       domain.TicketStatusConfirmed,
		AirlineName:  order.Flight.AirlineName,
		FlightNumber: order.Flight.FlightNumber,
	}
	if _, err := tx.Exec(ctx, `INSERT INTO ticket (ticket_id, ticket_price_cents, ticket_status, airline_name, flight_number) VALUES ($1, $2, $3, $4, $5)`,
		ticket.ID, ticket.PriceCents, ticket.Status, ticket.AirlineName, ticket.FlightNumber); err != nil {
		return nil, persistErr("insert ticket", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO purchases (ticket_id, customer_email, agent_email, purchase_date) VALUES ($1, $2, $3, $4)`,
		ticket.ID, order.CustomerEmail, nullable(order.AgentEmail), order.PurchasedAt); err != nil {
		return nil, persistErr("insert purchase", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistErr("commit purchase", err)
	}

	return &domain.Purchase{
		Ticket:         ticket,
		CustomerEmail:  order.CustomerEmail,
		AgentEmail:     order.AgentEmail,
		PurchasedAt:    order.PurchasedAt,
		RemainingSeats: remaining,
	}, nil
}

func exists(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, query string, args ...any) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, query, args...).Scan(&ok)
	return ok, err
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ PurchaseRepository = (*PGPurchaseRepository)(nil)
