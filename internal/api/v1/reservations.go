package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
	"github.com/parkwise/parkd/internal/server/middleware"
)

type ReservationDTO struct {
	ID        uuid.UUID                `json:"id"`
	UserID    uuid.UUID                `json:"userId"`
	SpaceID   uuid.UUID                `json:"spaceId"`
	VehicleID uuid.UUID                `json:"vehicleId"`
	StartTime time.Time                `json:"startTime"`
	EndTime   time.Time                `json:"endTime"`
	Status    domain.ReservationStatus `json:"status"`
	CreatedAt time.Time                `json:"createdAt"`
}

func toReservationDTO(r *domain.Reservation) *ReservationDTO {
	return &ReservationDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		SpaceID:   r.SpaceID,
		VehicleID: r.VehicleID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

type CreateReservationInput struct {
	Body struct {
		SpaceID   uuid.UUID `json:"spaceId" doc:"Parking space ID"`
		VehicleID uuid.UUID `json:"vehicleId" doc:"Vehicle ID"`
		StartTime time.Time `json:"startTime" doc:"Reservation start"`
		EndTime   time.Time `json:"endTime" doc:"Reservation end"`
	}
}

type CreateReservationOutput struct {
	Body *ReservationDTO
}

type ListReservationsInput struct {
	Page     int `query:"page" minimum:"1" default:"1" doc:"Page number"`
	PageSize int `query:"pageSize" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

type ListReservationsOutput struct {
	Body []*ReservationDTO
}

type GetReservationInput struct {
	ID uuid.UUID `path:"id" doc:"Reservation ID"`
}

type GetReservationOutput struct {
	Body *ReservationDTO
}

type TransitionReservationInput struct {
	ID uuid.UUID `path:"id" doc:"Reservation ID"`
}

type TransitionReservationOutput struct {
	Body *ReservationDTO
}

func RegisterReservationRoutes(api huma.API, store DataStore, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-reservation",
		Method:      http.MethodPost,
		Path:        "/reservations",
		Summary:     "Reserve a parking space",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *CreateReservationInput) (*CreateReservationOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if !input.Body.EndTime.After(input.Body.StartTime) {
			return nil, huma.Error400BadRequest("endTime must be after startTime")
		}

		vehicle, err := store.Vehicles().GetByID(ctx, input.Body.VehicleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("vehicle not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate vehicle")
		}
		if vehicle.UserID != userID {
			return nil, huma.Error403Forbidden("not your vehicle")
		}

		space, err := store.Spaces().GetByID(ctx, input.Body.SpaceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("space not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate space")
		}
		if space.Status != domain.SpaceStatusFree {
			return nil, huma.Error409Conflict("space is not free")
		}

		busy, err := store.Reservations().HasActiveForSpace(ctx, space.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to check space availability")
		}
		if busy {
			return nil, huma.Error409Conflict("space already has an active reservation")
		}

		now := time.Now()
		res := &domain.Reservation{
			ID:        uuid.New(),
			UserID:    userID,
			SpaceID:   space.ID,
			VehicleID: vehicle.ID,
			StartTime: input.Body.StartTime,
			EndTime:   input.Body.EndTime,
			Status:    domain.ReservationStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Reservations().Create(ctx, res); err != nil {
			return nil, huma.Error500InternalServerError("failed to create reservation")
		}

		if err := store.Spaces().UpdateStatus(ctx, space.ID, domain.SpaceStatusReserved); err != nil {
			log.Error().Err(err).Str("space_id", space.ID.String()).
				Msg("reservation created but space status update failed")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionCreateReservation,
			Message:    "reservation created",
			UserID:     userID.String(),
			Resource:   "reservation",
			ResourceID: res.ID.String(),
			Details: &domain.EventDetails{
				NewState: map[string]any{
					"spaceId":   space.ID.String(),
					"vehicleId": vehicle.ID.String(),
					"status":    string(res.Status),
				},
			},
		})

		return &CreateReservationOutput{Body: toReservationDTO(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reservations",
		Method:      http.MethodGet,
		Path:        "/reservations",
		Summary:     "List the authenticated user's reservations",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ListReservationsInput) (*ListReservationsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		offset := (input.Page - 1) * input.PageSize
		reservations, err := store.Reservations().ListByUser(ctx, userID, input.PageSize, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list reservations")
		}

		out := &ListReservationsOutput{Body: make([]*ReservationDTO, len(reservations))}
		for i, r := range reservations {
			out.Body[i] = toReservationDTO(r)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-reservation",
		Method:      http.MethodGet,
		Path:        "/reservations/{id}",
		Summary:     "Get a reservation",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *GetReservationInput) (*GetReservationOutput, error) {
		res, err := loadOwnReservation(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		return &GetReservationOutput{Body: toReservationDTO(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-reservation",
		Method:      http.MethodPost,
		Path:        "/reservations/{id}/cancel",
		Summary:     "Cancel an active reservation",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *TransitionReservationInput) (*TransitionReservationOutput, error) {
		return transitionReservation(ctx, store, rec, input.ID,
			domain.ReservationStatusCancelled, domain.ActionCancelReservation, "reservation cancelled")
	})

	huma.Register(api, huma.Operation{
		OperationID: "finish-reservation",
		Method:      http.MethodPost,
		Path:        "/reservations/{id}/finish",
		Summary:     "Finish an active reservation",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *TransitionReservationInput) (*TransitionReservationOutput, error) {
		return transitionReservation(ctx, store, rec, input.ID,
			domain.ReservationStatusFinished, domain.ActionFinishReservation, "reservation finished")
	})
}

func loadOwnReservation(ctx context.Context, store DataStore, id uuid.UUID) (*domain.Reservation, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	res, err := store.Reservations().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("reservation not found")
		}
		return nil, huma.Error500InternalServerError("failed to load reservation")
	}

	role, _ := middleware.RoleFromContext(ctx)
	if res.UserID != userID && role != middleware.RoleAdmin && role != middleware.RoleOperator {
		return nil, huma.Error403Forbidden("not your reservation")
	}

	return res, nil
}

// transitionReservation moves an active reservation to a terminal state and
// frees its space. Both end states release the space; the difference is only
// what the audit trail says happened.
func transitionReservation(ctx context.Context, store DataStore, rec Recorder, id uuid.UUID,
	to domain.ReservationStatus, action domain.Action, message string,
) (*TransitionReservationOutput, error) {
	res, err := loadOwnReservation(ctx, store, id)
	if err != nil {
		return nil, err
	}

	if !res.Status.ValidTransition(to) {
		return nil, huma.Error409Conflict("reservation is not active")
	}

	if err := store.Reservations().UpdateStatus(ctx, id, to); err != nil {
		return nil, huma.Error500InternalServerError("failed to update reservation")
	}
	prev := res.Status
	res.Status = to

	if err := store.Spaces().UpdateStatus(ctx, res.SpaceID, domain.SpaceStatusFree); err != nil {
		log.Error().Err(err).Str("space_id", res.SpaceID.String()).
			Msg("reservation closed but space status update failed")
	}

	actorID, _ := middleware.UserIDFromContext(ctx)
	rec.Record(audit.Entry{
		Level:      domain.LevelInfo,
		Action:     action,
		Message:    message,
		UserID:     actorID.String(),
		Resource:   "reservation",
		ResourceID: id.String(),
		Details: &domain.EventDetails{
			PreviousState: map[string]any{"status": string(prev)},
			NewState:      map[string]any{"status": string(to)},
		},
	})

	return &TransitionReservationOutput{Body: toReservationDTO(res)}, nil
}
