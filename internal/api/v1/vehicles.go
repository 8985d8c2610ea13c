package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
	"github.com/parkwise/parkd/internal/server/middleware"
)

type VehicleDTO struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"userId"`
	Plate       string             `json:"plate"`
	Make        string             `json:"make,omitempty"`
	Model       string             `json:"model,omitempty"`
	VehicleType domain.VehicleType `json:"vehicleType"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func toVehicleDTO(v *domain.Vehicle) *VehicleDTO {
	return &VehicleDTO{
		ID:          v.ID,
		UserID:      v.UserID,
		Plate:       v.Plate,
		Make:        v.Make,
		Model:       v.Model,
		VehicleType: v.VehicleType,
		CreatedAt:   v.CreatedAt,
	}
}

type CreateVehicleInput struct {
	Body struct {
		Plate       string `json:"plate" minLength:"1" maxLength:"16" doc:"License plate"`
		Make        string `json:"make,omitempty" maxLength:"64" doc:"Manufacturer"`
		Model       string `json:"model,omitempty" maxLength:"64" doc:"Model"`
		VehicleType string `json:"vehicleType" enum:"car,motorcycle,truck,electric" doc:"Vehicle type"`
	}
}

type CreateVehicleOutput struct {
	Body *VehicleDTO
}

type ListVehiclesOutput struct {
	Body []*VehicleDTO
}

type DeleteVehicleInput struct {
	ID uuid.UUID `path:"id" doc:"Vehicle ID"`
}

func RegisterVehicleRoutes(api huma.API, store DataStore, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-vehicle",
		Method:      http.MethodPost,
		Path:        "/vehicles",
		Summary:     "Register a vehicle",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *CreateVehicleInput) (*CreateVehicleOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		now := time.Now()
		v := &domain.Vehicle{
			ID:          uuid.New(),
			UserID:      userID,
			Plate:       input.Body.Plate,
			Make:        input.Body.Make,
			Model:       input.Body.Model,
			VehicleType: domain.VehicleType(input.Body.VehicleType),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Vehicles().Create(ctx, v); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("plate already registered")
			}
			return nil, huma.Error500InternalServerError("failed to register vehicle")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionCreateVehicle,
			Message:    "vehicle registered",
			UserID:     userID.String(),
			Resource:   "vehicle",
			ResourceID: v.ID.String(),
			Details: &domain.EventDetails{
				NewState: map[string]any{"plate": v.Plate, "vehicleType": string(v.VehicleType)},
			},
		})

		return &CreateVehicleOutput{Body: toVehicleDTO(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vehicles",
		Method:      http.MethodGet,
		Path:        "/vehicles",
		Summary:     "List the authenticated user's vehicles",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, _ *struct{}) (*ListVehiclesOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		vehicles, err := store.Vehicles().ListByUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list vehicles")
		}

		out := &ListVehiclesOutput{Body: make([]*VehicleDTO, len(vehicles))}
		for i, v := range vehicles {
			out.Body[i] = toVehicleDTO(v)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-vehicle",
		Method:      http.MethodDelete,
		Path:        "/vehicles/{id}",
		Summary:     "Remove a vehicle",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *DeleteVehicleInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		v, err := store.Vehicles().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("vehicle not found")
			}
			return nil, huma.Error500InternalServerError("failed to load vehicle")
		}

		role, _ := middleware.RoleFromContext(ctx)
		if v.UserID != userID && role != middleware.RoleAdmin {
			return nil, huma.Error403Forbidden("not your vehicle")
		}

		if err := store.Vehicles().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete vehicle")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionDeleteVehicle,
			Message:    "vehicle removed",
			UserID:     userID.String(),
			Resource:   "vehicle",
			ResourceID: input.ID.String(),
			Details: &domain.EventDetails{
				PreviousState: map[string]any{"plate": v.Plate},
			},
		})

		return nil, nil
	})
}
