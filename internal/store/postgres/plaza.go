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

type PlazaRepo struct {
	pool *pgxpool.Pool
}

func NewPlazaRepo(pool *pgxpool.Pool) *PlazaRepo {
	return &PlazaRepo{pool: pool}
}

func (r *PlazaRepo) Create(ctx context.Context, p *domain.ParkingPlaza) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO plazas (id, name, address, city, hourly_rate_cent, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Address, p.City, p.HourlyRateCent, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("plazaRepo.Create: %w", err)
	}

	return nil
}

func (r *PlazaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingPlaza, error) {
	var p domain.ParkingPlaza

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, city, hourly_rate_cent, active, created_at, updated_at
		 FROM plazas WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.HourlyRateCent, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plazaRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("plazaRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *PlazaRepo) Update(ctx context.Context, p *domain.ParkingPlaza) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE plazas SET name = $2, address = $3, city = $4, hourly_rate_cent = $5, active = $6, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Address, p.City, p.HourlyRateCent, p.Active,
	)
	if err != nil {
		return fmt.Errorf("plazaRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plazaRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PlazaRepo) List(ctx context.Context) ([]*domain.ParkingPlaza, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, city, hourly_rate_cent, active, created_at, updated_at
		 FROM plazas ORDER BY name
		 LIMIT 1000`,
	)
	if err != nil {
		return nil, fmt.Errorf("plazaRepo.List: %w", err)
	}
	defer rows.Close()

	var plazas []*domain.ParkingPlaza
	for rows.Next() {
		var p domain.ParkingPlaza
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.HourlyRateCent, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("plazaRepo.List: scan: %w", err)
		}
		plazas = append(plazas, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("plazaRepo.List: rows: %w", err)
	}

	return plazas, nil
}

func (r *PlazaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plazas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("plazaRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plazaRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PlazaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plazas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("plazaRepo.Count: %w", err)
	}

	return n, nil
}

type SpaceRepo struct {
	pool *pgxpool.Pool
}

func NewSpaceRepo(pool *pgxpool.Pool) *SpaceRepo {
	return &SpaceRepo{pool: pool}
}

func (r *SpaceRepo) Create(ctx context.Context, s *domain.ParkingSpace) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO spaces (id, plaza_id, number, space_type, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.PlazaID, s.Number, s.SpaceType, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("spaceRepo.Create: %w", err)
	}

	return nil
}

func (r *SpaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
	var s domain.ParkingSpace

	err := r.pool.QueryRow(ctx,
		`SELECT id, plaza_id, number, space_type, status, created_at, updated_at
		 FROM spaces WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.PlazaID, &s.Number, &s.SpaceType, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("spaceRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("spaceRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *SpaceRepo) ListByPlaza(ctx context.Context, plazaID uuid.UUID) ([]*domain.ParkingSpace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, plaza_id, number, space_type, status, created_at, updated_at
		 FROM spaces WHERE plaza_id = $1
		 ORDER BY number
		 LIMIT 5000`,
		plazaID,
	)
	if err != nil {
		return nil, fmt.Errorf("spaceRepo.ListByPlaza: %w", err)
	}
	defer rows.Close()

	var spaces []*domain.ParkingSpace
	for rows.Next() {
		var s domain.ParkingSpace
		if err := rows.Scan(&s.ID, &s.PlazaID, &s.Number, &s.SpaceType, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("spaceRepo.ListByPlaza: scan: %w", err)
		}
		spaces = append(spaces, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spaceRepo.ListByPlaza: rows: %w", err)
	}

	return spaces, nil
}

func (r *SpaceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SpaceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE spaces SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("spaceRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spaceRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SpaceRepo) Update(ctx context.Context, s *domain.ParkingSpace) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE spaces SET number = $2, space_type = $3, status = $4, updated_at = now()
		 WHERE id = $1`,
		s.ID, s.Number, s.SpaceType, s.Status,
	)
	if err != nil {
		return fmt.Errorf("spaceRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spaceRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SpaceRepo) CountByStatus(ctx context.Context, status domain.SpaceStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM spaces WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("spaceRepo.CountByStatus: %w", err)
	}

	return n, nil
}
