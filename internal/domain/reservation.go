package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusFinished  ReservationStatus = "finished"
)

// ValidTransition checks if a reservation state change is allowed.
// Active reservations can be cancelled or finished; both end states are terminal.
func (s ReservationStatus) ValidTransition(to ReservationStatus) bool {
	return s == ReservationStatusActive &&
		(to == ReservationStatusCancelled || to == ReservationStatusFinished)
}

var ErrInvalidTransition = errors.New("reservation: invalid state transition")

type Reservation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SpaceID   uuid.UUID
	VehicleID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reservation, error)
	HasActiveForSpace(ctx context.Context, spaceID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ReservationStatus) error
	CountByStatus(ctx context.Context, status ReservationStatus) (int64, error)
}
