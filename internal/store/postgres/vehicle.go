package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkwise/parkd/internal/domain"
)

type VehicleRepo struct {
	pool *pgxpool.Pool
}

func NewVehicleRepo(pool *pgxpool.Pool) *VehicleRepo {
	return &VehicleRepo{pool: pool}
}

func (r *VehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vehicles (id, user_id, plate, make, model, vehicle_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.UserID, v.Plate, v.Make, v.Model, v.VehicleType, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("vehicleRepo.Create: %w", err)
	}

	return nil
}

func (r *VehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return r.getBy(ctx, "vehicleRepo.GetByID", "id = $1", id)
}

func (r *VehicleRepo) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.getBy(ctx, "vehicleRepo.GetByPlate", "plate = $1", plate)
}

func (r *VehicleRepo) getBy(ctx context.Context, caller, cond string, arg any) (*domain.Vehicle, error) {
	var v domain.Vehicle

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, plate, make, model, vehicle_type, created_at, updated_at
		 FROM vehicles WHERE `+cond,
		arg,
	).Scan(&v.ID, &v.UserID, &v.Plate, &v.Make, &v.Model, &v.VehicleType, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	return &v, nil
}

func (r *VehicleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, plate, make, model, vehicle_type, created_at, updated_at
		 FROM vehicles WHERE user_id = $1
		 ORDER BY created_at
		 LIMIT 100`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("vehicleRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Plate, &v.Make, &v.Model, &v.VehicleType, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("vehicleRepo.ListByUser: scan: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicleRepo.ListByUser: rows: %w", err)
	}

	return vehicles, nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vehicleRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
