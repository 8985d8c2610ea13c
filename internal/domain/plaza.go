package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ParkingPlaza is one physical parking facility.
type ParkingPlaza struct {
	ID             uuid.UUID
	Name           string
	Address        string
	City           string
	HourlyRateCent int64 // price per hour, in cents
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SpaceType string

const (
	SpaceTypeStandard SpaceType = "standard"
	SpaceTypeCompact  SpaceType = "compact"
	SpaceTypeHandicap SpaceType = "handicap"
	SpaceTypeElectric SpaceType = "electric"
)

func (t SpaceType) Valid() bool {
	switch t {
	case SpaceTypeStandard, SpaceTypeCompact, SpaceTypeHandicap, SpaceTypeElectric:
		return true
	}
	return false
}

type SpaceStatus string

const (
	SpaceStatusFree        SpaceStatus = "free"
	SpaceStatusReserved    SpaceStatus = "reserved"
	SpaceStatusOccupied    SpaceStatus = "occupied"
	SpaceStatusMaintenance SpaceStatus = "maintenance"
)

func (s SpaceStatus) Valid() bool {
	switch s {
	case SpaceStatusFree, SpaceStatusReserved, SpaceStatusOccupied, SpaceStatusMaintenance:
		return true
	}
	return false
}

// ParkingSpace is one numbered space inside a plaza.
type ParkingSpace struct {
	ID        uuid.UUID
	PlazaID   uuid.UUID
	Number    string
	SpaceType SpaceType
	Status    SpaceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PlazaRepository interface {
	Create(ctx context.Context, p *ParkingPlaza) error
	GetByID(ctx context.Context, id uuid.UUID) (*ParkingPlaza, error)
	Update(ctx context.Context, p *ParkingPlaza) error
	List(ctx context.Context) ([]*ParkingPlaza, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type SpaceRepository interface {
	Create(ctx context.Context, s *ParkingSpace) error
	GetByID(ctx context.Context, id uuid.UUID) (*ParkingSpace, error)
	ListByPlaza(ctx context.Context, plazaID uuid.UUID) ([]*ParkingSpace, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status SpaceStatus) error
	Update(ctx context.Context, s *ParkingSpace) error
	CountByStatus(ctx context.Context, status SpaceStatus) (int64, error)
}
