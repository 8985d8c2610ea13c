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

type GetMeOutput struct {
	Body *UserDTO
}

type UpdateMeInput struct {
	Body struct {
		Name  string `json:"name,omitempty" maxLength:"255" doc:"Display name"`
		Phone string `json:"phone,omitempty" maxLength:"32" doc:"Phone number"`
	}
}

type UpdateMeOutput struct {
	Body *UserDTO
}

type ListUsersInput struct {
	Page     int `query:"page" minimum:"1" default:"1" doc:"Page number"`
	PageSize int `query:"pageSize" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

type ListUsersOutput struct {
	Body struct {
		Users []*UserDTO `json:"users"`
		Total int64      `json:"total"`
	}
}

type ChangeRoleInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Role string `json:"role" enum:"admin,operator,customer" doc:"New role"`
	}
}

type ChangeRoleOutput struct {
	Body *UserDTO
}

// RegisterUserRoutes mounts the self-service profile endpoints.
func RegisterUserRoutes(api huma.API, store DataStore, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get the authenticated user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*GetMeOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to load user")
		}

		return &GetMeOutput{Body: toUserDTO(user)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPut,
		Path:        "/users/me",
		Summary:     "Update the authenticated user's profile",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateMeInput) (*UpdateMeOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to load user")
		}

		prev := map[string]any{"name": user.Name, "phone": user.Phone}

		if input.Body.Name != "" {
			user.Name = input.Body.Name
		}
		if input.Body.Phone != "" {
			user.Phone = input.Body.Phone
		}
		user.UpdatedAt = time.Now()

		if err := store.Users().Update(ctx, user); err != nil {
			return nil, huma.Error500InternalServerError("failed to update user")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionUpdateUser,
			Message:    "profile updated",
			UserID:     userID.String(),
			Resource:   "user",
			ResourceID: userID.String(),
			Details: &domain.EventDetails{
				PreviousState: prev,
				NewState:      map[string]any{"name": user.Name, "phone": user.Phone},
			},
		})

		return &UpdateMeOutput{Body: toUserDTO(user)}, nil
	})
}

// RegisterUserAdminRoutes mounts the administrative user endpoints. The
// caller is responsible for gating them behind an admin-only group.
func RegisterUserAdminRoutes(api huma.API, store DataStore, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
		offset := (input.Page - 1) * input.PageSize
		users, err := store.Users().List(ctx, input.PageSize, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users")
		}

		total, err := store.Users().Count(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count users")
		}

		out := &ListUsersOutput{}
		out.Body.Users = make([]*UserDTO, len(users))
		for i, u := range users {
			out.Body.Users[i] = toUserDTO(u)
		}
		out.Body.Total = total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-user-role",
		Method:      http.MethodPut,
		Path:        "/users/{id}/role",
		Summary:     "Change a user's role",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ChangeRoleInput) (*ChangeRoleOutput, error) {
		actorID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to load user")
		}

		prevRole := user.Role
		if err := store.Users().UpdateRole(ctx, input.ID, input.Body.Role); err != nil {
			return nil, huma.Error500InternalServerError("failed to change role")
		}
		user.Role = input.Body.Role

		// Role changes are always warn-level: they alter what an account
		// is allowed to do.
		rec.Record(audit.Entry{
			Level:      domain.LevelWarn,
			Action:     domain.ActionRoleChange,
			Message:    "user role changed",
			UserID:     actorID.String(),
			Resource:   "user",
			ResourceID: input.ID.String(),
			Details: &domain.EventDetails{
				PreviousState: map[string]any{"role": prevRole},
				NewState:      map[string]any{"role": input.Body.Role},
			},
		})

		return &ChangeRoleOutput{Body: toUserDTO(user)}, nil
	})
}
