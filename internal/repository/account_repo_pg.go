package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type AccountRepository interface {
	CreateCustomer(ctx context.Context, c domain.Customer) error
	CreateAgent(ctx context.Context, a domain.Agent) error
	CreateStaff(ctx context.Context, s domain.Staff) error
	GetCustomer(ctx context.Context, email string) (*domain.Customer, error)
	GetAgent(ctx context.Context, email string) (*domain.Agent, error)
	GetStaff(ctx context.Context, username string) (*domain.Staff, error)
	AgentAirlines(ctx context.Context, agentEmail string) ([]string, error)
	AddAffiliation(ctx context.Context, agentEmail, airlineName string) error
}

type PGAccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) AccountRepository {
	return &PGAccountRepository{db: db}
}

func (r *PGAccountRepository) CreateCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.db.Exec(ctx, `INSERT INTO customer (email, password, name, building_number, street, city, state, phone_number, passport_number, passport_expiration_date, passport_country, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.Email, c.PasswordHash, c.Name, c.BuildingNumber, c.Street, c.City, c.State, c.PhoneNumber, c.PassportNumber, c.PassportExpirationDate, c.PassportCountry, c.DateOfBirth)
	if err != nil {
		return storeErr("create customer", err)
	}
	return nil
}

func (r *PGAccountRepository) CreateAgent(ctx context.Context, a domain.Agent) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO booking_agent (email, password) VALUES ($1, $2)`, a.Email, a.PasswordHash); err != nil {
		return storeErr("create agent", err)
	}
	return nil
}

func (r *PGAccountRepository) CreateStaff(ctx context.Context, s domain.Staff) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return persistErr("begin create staff", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO staff (username, password, first_name, last_name, date_of_birth, airline_name) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.Username, s.PasswordHash, s.FirstName, s.LastName, s.DateOfBirth, s.AirlineName); err != nil {
		return storeErr("create staff", err)
	}
	for _, p := range s.Permissions {
		if _, err := tx.Exec(ctx, `INSERT INTO permission (username, permission_type) VALUES ($1, $2)`, s.Username, string(p)); err != nil {
			return storeErr("grant permission", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return persistErr("commit create staff", err)
	}
	return nil
}

func (r *PGAccountRepository) GetCustomer(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRow(ctx, `SELECT email, password, name, building_number, street, city, state, phone_number, passport_number, passport_expiration_date, passport_country, date_of_birth FROM customer WHERE email=$1`, email).
		Scan(&c.Email, &c.PasswordHash, &c.Name, &c.BuildingNumber, &c.Street, &c.City, &c.State, &c.PhoneNumber, &c.PassportNumber, &c.PassportExpirationDate, &c.PassportCountry, &c.DateOfBirth)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &c, nil
}

func (r *PGAccountRepository) GetAgent(ctx context.Context, email string) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.QueryRow(ctx, `SELECT email, password FROM booking_agent WHERE email=$1`, email).Scan(&a.Email, &a.PasswordHash); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &a, nil
}

func (r *PGAccountRepository) GetStaff(ctx context.Context, username string) (*domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(ctx, `SELECT username, password, first_name, last_name, date_of_birth, airline_name FROM staff WHERE username=$1`, username).
		Scan(&s.Username, &s.PasswordHash, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.AirlineName)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}

	perms, err := collect(ctx, r.db, `SELECT permission_type FROM permission WHERE username=$1 ORDER BY permission_type`, []any{username}, func(row pgx.Row) (domain.Permission, error) {
		var p domain.Permission
		err := row.Scan(&p)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	s.Permissions = perms
	return &s, nil
}

func (r *PGAccountRepository) AgentAirlines(ctx context.Context, agentEmail string) ([]string, error) {
	return collect(ctx, r.db, `SELECT airline_name FROM work_with WHERE agent_email=$1 ORDER BY airline_name`, []any{agentEmail}, func(row pgx.Row) (string, error) {
		var name string
		err := row.Scan(&name)
		return name, err
	})
}

func (r *PGAccountRepository) AddAffiliation(ctx context.Context, agentEmail, airlineName string) error {
	ok, err := exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM booking_agent WHERE email=$1)`, agentEmail)
	if err != nil {
		return persistErr("lookup agent", err)
	}
	if !ok {
		return domain.ErrAgentNotFound
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO work_with (agent_email, airline_name) VALUES ($1, $2)`, agentEmail, airlineName); err != nil {
		return storeErr("add affiliation", err)
	}
	return nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}

var _ AccountRepository = (*PGAccountRepository)(nil)
