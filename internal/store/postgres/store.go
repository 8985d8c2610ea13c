package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkwise/parkd/internal/domain"
)

type Store struct {
	pool         *pgxpool.Pool
	users        *UserRepo
	plazas       *PlazaRepo
	spaces       *SpaceRepo
	vehicles     *VehicleRepo
	reservations *ReservationRepo
	events       *EventRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:         pool,
		users:        NewUserRepo(pool),
		plazas:       NewPlazaRepo(pool),
		spaces:       NewSpaceRepo(pool),
		vehicles:     NewVehicleRepo(pool),
		reservations: NewReservationRepo(pool),
		events:       NewEventRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database liveness, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres.Ping: %w", err)
	}
	return nil
}

func (s *Store) Users() domain.UserRepository               { return s.users }
func (s *Store) Plazas() domain.PlazaRepository             { return s.plazas }
func (s *Store) Spaces() domain.SpaceRepository             { return s.spaces }
func (s *Store) Vehicles() domain.VehicleRepository         { return s.vehicles }
func (s *Store) Reservations() domain.ReservationRepository { return s.reservations }
func (s *Store) Events() domain.EventRepository             { return s.events }
