package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeTruck      VehicleType = "truck"
	VehicleTypeElectric   VehicleType = "electric"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeTruck, VehicleTypeElectric:
		return true
	}
	return false
}

type Vehicle struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Plate       string // unique
	Make        string
	Model       string
	VehicleType VehicleType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*Vehicle, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
