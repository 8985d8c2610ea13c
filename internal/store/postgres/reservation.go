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

type ReservationRepo struct {
	pool *pgxpool.Pool
}

func NewReservationRepo(pool *pgxpool.Pool) *ReservationRepo {
	return &ReservationRepo{pool: pool}
}

func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reservations (id, user_id, space_id, vehicle_id, start_time, end_time, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		res.ID, res.UserID, res.SpaceID, res.VehicleID,
		res.StartTime, res.EndTime, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("reservationRepo.Create: %w", err)
	}

	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var res domain.Reservation

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, space_id, vehicle_id, start_time, end_time, status, created_at, updated_at
		 FROM reservations WHERE id = $1`,
		id,
	).Scan(
		&res.ID, &res.UserID, &res.SpaceID, &res.VehicleID,
		&res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reservationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reservationRepo.GetByID: %w", err)
	}

	return &res, nil
}

func (r *ReservationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, space_id, vehicle_id, start_time, end_time, status, created_at, updated_at
		 FROM reservations WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("reservationRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var out []*domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.SpaceID, &res.VehicleID,
			&res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("reservationRepo.ListByUser: scan: %w", err)
		}
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservationRepo.ListByUser: rows: %w", err)
	}

	return out, nil
}

func (r *ReservationRepo) HasActiveForSpace(ctx context.Context, spaceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE space_id = $1 AND status = 'active')`,
		spaceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("reservationRepo.HasActiveForSpace: %w", err)
	}

	return exists, nil
}

func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("reservationRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservationRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReservationRepo) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reservationRepo.CountByStatus: %w", err)
	}

	return n, nil
}
