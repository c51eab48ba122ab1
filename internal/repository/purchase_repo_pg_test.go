package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customerExistsSQL = regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM customer WHERE email=$1)`)
	workWithSQL       = regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM work_with WHERE agent_email=$1 AND airline_name=$2)`)
	reserveSeatSQL    = `UPDATE flight f SET remaining_seats = f.remaining_seats - 1`
	flightExistsSQL   = regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM flight f`)
	insertTicketSQL   = regexp.QuoteMeta(`INSERT INTO ticket`)
	insertPurchaseSQL = regexp.QuoteMeta(`INSERT INTO purchases`)
)

func newOrder(agent string) PurchaseOrder {
	return PurchaseOrder{
		TicketID:      "7b6f3c1e-8f0a-4b8e-9a51-1f2d3c4b5a69",
		CustomerEmail: "alice@example.com",
		AgentEmail:    agent,
		Flight:        domain.FlightKey{AirlineName: "China Eastern", FlightNumber: "MU5101"},
		PurchasedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }

func TestPurchase_CustomerSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(reserveSeatSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"price_cents", "remaining_seats"}).AddRow(int64(12500), 0))
	mock.ExpectExec(insertTicketSQL).
		WithArgs(order.TicketID, int64(12500), domain.TicketStatusConfirmed, "China Eastern", "MU5101").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertPurchaseSQL).
		WithArgs(order.TicketID, order.CustomerEmail, (*string)(nil), order.PurchasedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewPurchaseRepository(mock)
	purchase, err := repo.Purchase(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, int64(12500), purchase.Ticket.PriceCents)
	assert.Equal(t, domain.TicketStatusConfirmed, purchase.Ticket.Status)
	assert.Equal(t, 0, purchase.RemainingSeats)
	assert.Empty(t, purchase.AgentEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_AgentSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("agent@example.com")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(workWithSQL).WithArgs("agent@example.com", "China Eastern").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(reserveSeatSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"price_cents", "remaining_seats"}).AddRow(int64(9900), 41))
	mock.ExpectExec(insertTicketSQL).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertPurchaseSQL).
		WithArgs(order.TicketID, order.CustomerEmail, strPtr("agent@example.com"), order.PurchasedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	purchase, err := NewPurchaseRepository(mock).Purchase(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", purchase.AgentEmail)
	assert.Equal(t, 41, purchase.RemainingSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_CustomerNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_AgentNotAffiliated(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("agent@example.com")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(workWithSQL).WithArgs("agent@example.com", "China Eastern").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), order)

	// The seat counter is never touched.
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_SoldOut(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(reserveSeatSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"price_cents", "remaining_seats"}))
	mock.ExpectQuery(flightExistsSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrNoSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_FlightNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(reserveSeatSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"price_cents", "remaining_seats"}))
	mock.ExpectQuery(flightExistsSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_InsertFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := newOrder("")
	mock.ExpectBegin()
	mock.ExpectQuery(customerExistsSQL).WithArgs(order.CustomerEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(reserveSeatSQL).WithArgs("China Eastern", "MU5101").
		WillReturnRows(pgxmock.NewRows([]string{"price_cents", "remaining_seats"}).AddRow(int64(12500), 3))
	mock.ExpectExec(insertTicketSQL).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertPurchaseSQL).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorContains(t, err, "insert purchase")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_BeginFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err = NewPurchaseRepository(mock).Purchase(context.Background(), newOrder(""))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
