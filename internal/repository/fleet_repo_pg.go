package repository

import (
	"context"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FleetRepository owns the reference data flights depend on.
type FleetRepository interface {
	CreateAirport(ctx context.Context, a domain.Airport) error
	CreateAirplane(ctx context.Context, p domain.Airplane) error
	ListAirplanes(ctx context.Context, airlineName string) ([]domain.Airplane, error)
}

type PGFleetRepository struct {
	db DB
}

func NewFleetRepository(db DB) FleetRepository {
	return &PGFleetRepository{db: db}
}

func (r *PGFleetRepository) CreateAirport(ctx context.Context, a domain.Airport) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO airport (name, city) VALUES ($1, $2)`, a.Name, a.City); err != nil {
		return storeErr("create airport", err)
	}
	return nil
}

func (r *PGFleetRepository) CreateAirplane(ctx context.Context, p domain.Airplane) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO airplane (airline_name, airplane_id, seat_capacity) VALUES ($1, $2, $3)`, p.AirlineName, p.AirplaneID, p.SeatCapacity); err != nil {
		return storeErr("create airplane", err)
	}
	return nil
}

func (r *PGFleetRepository) ListAirplanes(ctx context.Context, airlineName string) ([]domain.Airplane, error) {
	return collect(ctx, r.db, `SELECT airline_name, airplane_id, seat_capacity FROM airplane WHERE airline_name=$1 ORDER BY airplane_id`, []any{airlineName}, func(row pgx.Row) (domain.Airplane, error) {
		var p domain.Airplane
		err := row.Scan(&p.AirlineName, &p.AirplaneID, &p.SeatCapacity)
		return p, err
	})
}

var _ FleetRepository = (*PGFleetRepository)(nil)
