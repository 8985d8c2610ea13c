package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/domain"
	"github.com/parkwise/parkd/internal/server/middleware"
)

type RegisterInput struct {
	Body struct {
		Email    string `json:"email" format:"email" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Phone    string `json:"phone,omitempty" maxLength:"32" doc:"Phone number"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *UserDTO `json:"user"`
		AccessToken  string   `json:"accessToken"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string   `json:"refreshToken"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		User         *UserDTO `json:"user"`
		AccessToken  string   `json:"accessToken"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string   `json:"refreshToken"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refreshToken" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"accessToken"` //nolint:gosec // G117: auth response DTO
	}
}

type LogoutOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RegisterAuthRoutes mounts the unauthenticated auth endpoints.
func RegisterAuthRoutes(api huma.API, authSvc AuthService, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new customer account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name, input.Body.Phone)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		_, accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionRegister,
			Message:    "new account registered",
			UserID:     user.ID.String(),
			Resource:   "user",
			ResourceID: user.ID.String(),
		})

		out := &RegisterOutput{}
		out.Body.User = toUserDTO(user)
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		user, accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				rec.Record(audit.Entry{
					Level:   domain.LevelWarn,
					Action:  domain.ActionLogin,
					Message: "failed login attempt",
					Details: &domain.EventDetails{
						Reason: "invalid credentials",
						Metadata: map[string]any{
							"email": input.Body.Email,
						},
					},
				})
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionLogin,
			Message:    "user logged in",
			UserID:     user.ID.String(),
			Resource:   "user",
			ResourceID: user.ID.String(),
		})

		out := &LoginOutput{}
		out.Body.User = toUserDTO(user)
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})
}

// RegisterLogoutRoute mounts the authenticated logout endpoint. Tokens are
// stateless, so logout only records the event for the session trail.
func RegisterLogoutRoute(api huma.API, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Logout",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		rec.Record(audit.Entry{
			Level:      domain.LevelInfo,
			Action:     domain.ActionLogout,
			Message:    "user logged out",
			UserID:     userID.String(),
			Resource:   "user",
			ResourceID: userID.String(),
		})

		out := &LogoutOutput{}
		out.Body.Message = "logged out"
		return out, nil
	})
}
