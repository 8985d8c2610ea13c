package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/parkwise/parkd/internal/api/v1"
	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/domain"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		user := &domain.User{ID: userID, Email: "ana@example.com", Name: "Ana", Role: "customer"}

		_, api := humatest.New(t)
		rec := &captureRecorder{}
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, email, password, name, phone string) (*domain.User, error) {
				assert.Equal(t, "ana@example.com", email)
				assert.Equal(t, "hunter2hunter2", password)
				return user, nil
			},
			loginFunc: func(context.Context, string, string) (*domain.User, string, string, error) {
				return user, "access-tok", "refresh-tok", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc, rec)

		resp := api.Post("/auth/register", map[string]any{
			"email":    "ana@example.com",
			"password": "hunter2hunter2",
			"name":     "Ana",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			User         *v1.UserDTO `json:"user"`
			AccessToken  string      `json:"accessToken"`
			RefreshToken string      `json:"refreshToken"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.User.Email)
		assert.Equal(t, "access-tok", body.AccessToken)
		assert.Equal(t, "refresh-tok", body.RefreshToken)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionRegister, entries[0].Action)
		assert.Equal(t, userID.String(), entries[0].UserID)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(context.Context, string, string, string, string) (*domain.User, error) {
				return nil, auth.ErrUserAlreadyExists
			},
		}
		v1.RegisterAuthRoutes(api, svc, &captureRecorder{})

		resp := api.Post("/auth/register", map[string]any{
			"email":    "ana@example.com",
			"password": "hunter2hunter2",
			"name":     "Ana",
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_records_login", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		_, api := humatest.New(t)
		rec := &captureRecorder{}
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, email, password string) (*domain.User, string, string, error) {
				assert.Equal(t, "ana@example.com", email)
				return &domain.User{ID: userID, Email: email, Role: "customer"}, "a", "r", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc, rec)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "ana@example.com",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionLogin, entries[0].Action)
		assert.Equal(t, domain.LevelInfo, entries[0].Level)
		assert.Equal(t, userID.String(), entries[0].UserID)
	})

	t.Run("bad_credentials_record_a_warn", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		rec := &captureRecorder{}
		svc := &mockAuthService{
			loginFunc: func(context.Context, string, string) (*domain.User, string, string, error) {
				return nil, "", "", auth.ErrInvalidCredentials
			},
		}
		v1.RegisterAuthRoutes(api, svc, rec)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "ana@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.LevelWarn, entries[0].Level)
		assert.Equal(t, domain.ActionLogin, entries[0].Action)
		assert.Empty(t, entries[0].UserID)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	t.Parallel()

	t.Run("refresh", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshFunc: func(_ context.Context, token string) (string, error) {
				assert.Equal(t, "refresh-tok", token)
				return "new-access", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc, &captureRecorder{})

		resp := api.Post("/auth/refresh", map[string]any{"refreshToken": "refresh-tok"})
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "new-access", body.AccessToken)
	})

	t.Run("logout_records_event", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		_, api := humatest.New(t)
		rec := &captureRecorder{}
		v1.RegisterLogoutRoute(api, rec)

		resp := api.PostCtx(userCtx(userID, "customer"), "/auth/logout", map[string]any{})
		require.Equal(t, http.StatusOK, resp.Code)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionLogout, entries[0].Action)
		assert.Equal(t, userID.String(), entries[0].UserID)
	})
}
