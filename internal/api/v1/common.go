// Package v1 is the HTTP surface of the service: huma operations per
// resource, registered on a router group that already carries auth, rate
// limiting and audit capture.
package v1

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
)

// UserDTO is the wire shape of a user. The password hash never leaves the
// service.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// mapServiceError translates audit/domain sentinels into HTTP problems.
// Anything unrecognized is a 500 without internal detail.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("not found")
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict("conflict")
	case errors.Is(err, audit.ErrQueryFailed), errors.Is(err, audit.ErrExportFailed), errors.Is(err, audit.ErrSweepFailed):
		return huma.Error500InternalServerError("operation failed")
	default:
		return huma.Error500InternalServerError("operation failed")
	}
}
