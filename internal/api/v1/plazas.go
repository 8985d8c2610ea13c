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

type PlazaDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	HourlyRateCent int64     `json:"hourlyRateCent"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toPlazaDTO(p *domain.ParkingPlaza) *PlazaDTO {
	return &PlazaDTO{
		ID:             p.ID,
		Name:           p.Name,
		Address:        p.Address,
		City:           p.City,
		HourlyRateCent: p.HourlyRateCent,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
	}
}

type SpaceDTO struct {
	ID        uuid.UUID          `json:"id"`
	PlazaID   uuid.UUID          `json:"plazaId"`
	Number    string             `json:"number"`
	SpaceType domain.SpaceType   `json:"spaceType"`
	Status    domain.SpaceStatus `json:"status"`
}

func toSpaceDTO(s *domain.ParkingSpace) *SpaceDTO {
	return &SpaceDTO{
		ID:        s.ID,
		PlazaID:   s.PlazaID,
		Number:    s.Number,
		SpaceType: s.SpaceType,
		Status:    s.Status,
	}
}

type CreatePlazaInput struct {
	Body struct {
		Name           string `json:"name" minLength:"1" maxLength:"255" doc:"Plaza name"`
		Address        string `json:"address" minLength:"1" maxLength:"500" doc:"Street address"`
		City           string `json:"city" minLength:"1" maxLength:"255" doc:"City"`
		HourlyRateCent int64  `json:"hourlyRateCent" minimum:"0" doc:"Hourly rate in cents"`
	}
}

type CreatePlazaOutput struct {
	Body *PlazaDTO
}

type ListPlazasOutput struct {
	Body []*PlazaDTO
}

type GetPlazaInput struct {
	ID uuid.UUID `path:"id" doc:"Plaza ID"`
}

type GetPlazaOutput struct {
	Body *PlazaDTO
}

type UpdatePlazaInput struct {
	ID   uuid.UUID `path:"id" doc:"Plaza ID"`
	Body struct {
		Name           string `json:"name,omitempty" maxLength:"255" doc:"Plaza name"`
		Address        string `json:"address,omitempty" maxLength:"500" doc:"Street address"`
		City           string `json:"city,omitempty" maxLength:"255" doc:"City"`
		HourlyRateCent *int64 `json:"hourlyRateCent,omitempty" minimum:"0" doc:"Hourly rate in cents"`
		Active         *bool  `json:"active,omitempty" doc:"Whether the plaza accepts reservations"`
	}
}

type UpdatePlazaOutput struct {
	Body *PlazaDTO
}

type DeletePlazaInput struct {
	ID uuid.UUID `path:"id" doc:"Plaza ID"`
}

type CreateSpaceInput struct {
	PlazaID uuid.UUID `path:"id" doc:"Plaza ID"`
	Body    struct {
		Number    string `json:"number" minLength:"1" maxLength:"16" doc:"Space number"`
		SpaceType string `json:"spaceType" enum:"standard,compact,handicap,electric" doc:"Space type"`
	}
}

type CreateSpaceOutput struct {
	Body *SpaceDTO
}

type ListSpacesInput struct {
	PlazaID uuid.UUID `path:"id" doc:"Plaza ID"`
}

type ListSpacesOutput struct {
	Body []*SpaceDTO
}

type UpdateSpaceStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Space ID"`
	Body struct {
		Status string `json:"status" enum:"free,reserved,occupied,maintenance" doc:"Target status"`
	}
}

type UpdateSpaceStatusOutput struct {
	Body *SpaceDTO
}

// RegisterPlazaRoutes mounts the read-side plaza and space endpoints,
// available to every authenticated user.
func RegisterPlazaRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-plazas",
		Method:      http.MethodGet,
		Path:        "/plazas",
		Summary:     "List parking plazas",
		Tags:        []string{"Plazas"},
	}, func(ctx context.Context, _ *struct{}) (*ListPlazasOutput, error) {
		plazas, err := store.Plazas().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list plazas")
		}

		out := &ListPlazasOutput{Body: make([]*PlazaDTO, len(plazas))}
		for i, p := range plazas {
			out.Body[i] = toPlazaDTO(p)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-plaza",
		Method:      http.MethodGet,
		Path:        "/plazas/{id}",
		Summary:     "Get a parking plaza",
		Tags:        []string{"Plazas"},
	}, func(ctx context.Context, input *GetPlazaInput) (*GetPlazaOutput, error) {
		p, err := store.Plazas().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("plaza not found")
			}
			return nil, huma.Error500InternalServerError("failed to load plaza")
		}
		return &GetPlazaOutput{Body: toPlazaDTO(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-spaces",
		Method:      http.MethodGet,
		Path:        "/plazas/{id}/spaces",
		Summary:     "List spaces in a plaza",
		Tags:        []string{"Spaces"},
	}, func(ctx context.Context, input *ListSpacesInput) (*ListSpacesOutput, error) {
		spaces, err := store.Spaces().ListByPlaza(ctx, input.PlazaID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list spaces")
		}

		out := &ListSpacesOutput{Body: make([]*SpaceDTO, len(spaces))}
		for i, s := range spaces {
			out.Body[i] = toSpaceDTO(s)
		}
		return out, nil
	})
}

// RegisterPlazaAdminRoutes mounts the mutating plaza and space endpoints.
// The caller is responsible for gating them behind a staff-only group.
func RegisterPlazaAdminRoutes(api huma.API, store DataStore, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "create-plaza",
		Method:      http.MethodPost,
		Path:        "/plazas",
		Summary:     "Create a parking plaza",
		Tags:        []string{"Plazas"},
	}, func(ctx context.Context, input *CreatePlazaInput) (*CreatePlazaOutput, error) {
		actorID, _ := middleware.UserIDFromContext(ctx)

		now := time.Now()
		p := &domain.ParkingPlaza{
			ID:             uuid.New(),
			Name:           input.Body.Name,
			Address:        input.Body.Address,
			City:           input.Body.City,
			HourlyRateCent: input.Body.HourlyRateCent,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := store.Plazas().Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("plaza already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create plaza")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionCreatePlaza,
			Message:    "parking plaza created",
			UserID:     actorID.String(),
			Resource:   "plaza",
			ResourceID: p.ID.String(),
			Details: &domain.EventDetails{
				NewState: map[string]any{"name": p.Name, "city": p.City},
			},
		})

		return &CreatePlazaOutput{Body: toPlazaDTO(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-plaza",
		Method:      http.MethodPut,
		Path:        "/plazas/{id}",
		Summary:     "Update a parking plaza",
		Tags:        []string{"Plazas"},
	}, func(ctx context.Context, input *UpdatePlazaInput) (*UpdatePlazaOutput, error) {
		actorID, _ := middleware.UserIDFromContext(ctx)

		p, err := store.Plazas().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("plaza not found")
			}
			return nil, huma.Error500InternalServerError("failed to load plaza")
		}

		prev := map[string]any{
			"name": p.Name, "address": p.Address, "city": p.City,
			"hourlyRateCent": p.HourlyRateCent, "active": p.Active,
		}

		if input.Body.Name != "" {
			p.Name = input.Body.Name
		}
		if input.Body.Address != "" {
			p.Address = input.Body.Address
		}
		if input.Body.City != "" {
			p.City = input.Body.City
		}
		if input.Body.HourlyRateCent != nil {
			p.HourlyRateCent = *input.Body.HourlyRateCent
		}
		if input.Body.Active != nil {
			p.Active = *input.Body.Active
		}
		p.UpdatedAt = time.Now()

		if err := store.Plazas().Update(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to update plaza")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionUpdatePlaza,
			Message:    "parking plaza updated",
			UserID:     actorID.String(),
			Resource:   "plaza",
			ResourceID: p.ID.String(),
			Details: &domain.EventDetails{
				PreviousState: prev,
				NewState: map[string]any{
					"name": p.Name, "address": p.Address, "city": p.City,
					"hourlyRateCent": p.HourlyRateCent, "active": p.Active,
				},
			},
		})

		return &UpdatePlazaOutput{Body: toPlazaDTO(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-plaza",
		Method:      http.MethodDelete,
		Path:        "/plazas/{id}",
		Summary:     "Delete a parking plaza",
		Tags:        []string{"Plazas"},
	}, func(ctx context.Context, input *DeletePlazaInput) (*struct{}, error) {
		actorID, _ := middleware.UserIDFromContext(ctx)

		if err := store.Plazas().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("plaza not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete plaza")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelWarn,
			Action:     domain.ActionDeletePlaza,
			Message:    "parking plaza deleted",
			UserID:     actorID.String(),
			Resource:   "plaza",
			ResourceID: input.ID.String(),
		})

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-space",
		Method:      http.MethodPost,
		Path:        "/plazas/{id}/spaces",
		Summary:     "Add a space to a plaza",
		Tags:        []string{"Spaces"},
	}, func(ctx context.Context, input *CreateSpaceInput) (*CreateSpaceOutput, error) {
		actorID, _ := middleware.UserIDFromContext(ctx)

		if _, err := store.Plazas().GetByID(ctx, input.PlazaID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("plaza not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate plaza")
		}

		now := time.Now()
		s := &domain.ParkingSpace{
			ID:        uuid.New(),
			PlazaID:   input.PlazaID,
			Number:    input.Body.Number,
			SpaceType: domain.SpaceType(input.Body.SpaceType),
			Status:    domain.SpaceStatusFree,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Spaces().Create(ctx, s); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("space number already exists in this plaza")
			}
			return nil, huma.Error500InternalServerError("failed to create space")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionCreateSpace,
			Message:    "parking space created",
			UserID:     actorID.String(),
			Resource:   "space",
			ResourceID: s.ID.String(),
			Details: &domain.EventDetails{
				NewState: map[string]any{"number": s.Number, "spaceType": string(s.SpaceType)},
			},
		})

		return &CreateSpaceOutput{Body: toSpaceDTO(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-space-status",
		Method:      http.MethodPut,
		Path:        "/spaces/{id}/status",
		Summary:     "Change a space's status",
		Tags:        []string{"Spaces"},
	}, func(ctx context.Context, input *UpdateSpaceStatusInput) (*UpdateSpaceStatusOutput, error) {
		actorID, _ := middleware.UserIDFromContext(ctx)

		s, err := store.Spaces().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("space not found")
			}
			return nil, huma.Error500InternalServerError("failed to load space")
		}

		prev := s.Status
		next := domain.SpaceStatus(input.Body.Status)
		if err := store.Spaces().UpdateStatus(ctx, input.ID, next); err != nil {
			return nil, huma.Error500InternalServerError("failed to update space status")
		}
		s.Status = next

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionUpdateSpace,
			Message:    "parking space status changed",
			UserID:     actorID.String(),
			Resource:   "space",
			ResourceID: s.ID.String(),
			Details: &domain.EventDetails{
				PreviousState: map[string]any{"status": string(prev)},
				NewState:      map[string]any{"status": string(next)},
			},
		})

		return &UpdateSpaceStatusOutput{Body: toSpaceDTO(s)}, nil
	})
}
