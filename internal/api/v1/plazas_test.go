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
	"github.com/parkwise/parkd/internal/domain"
)

func TestCreatePlaza(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		store := &mockDataStore{
			plazas: &mockPlazaRepo{
				createFunc: func(_ context.Context, p *domain.ParkingPlaza) error {
					createCalled = true
					assert.Equal(t, "Centro", p.Name)
					assert.True(t, p.Active)
					return nil
				},
			},
		}
		rec := &captureRecorder{}
		_, api := humatest.New(t)
		v1.RegisterPlazaAdminRoutes(api, store, rec)

		resp := api.PostCtx(adminCtx(adminID), "/plazas", map[string]any{
			"name":           "Centro",
			"address":        "Av. Principal 100",
			"city":           "Lisboa",
			"hourlyRateCent": 250,
		})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled)

		var body v1.PlazaDTO
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Centro", body.Name)
		assert.Equal(t, int64(250), body.HourlyRateCent)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionCreatePlaza, entries[0].Action)
		assert.Equal(t, adminID.String(), entries[0].UserID)
	})
}

func TestListPlazas(t *testing.T) {
	t.Parallel()

	store := &mockDataStore{
		plazas: &mockPlazaRepo{
			listFunc: func(context.Context) ([]*domain.ParkingPlaza, error) {
				return []*domain.ParkingPlaza{
					{ID: uuid.New(), Name: "Centro", City: "Lisboa", Active: true},
					{ID: uuid.New(), Name: "Norte", City: "Porto", Active: false},
				}, nil
			},
		},
	}
	_, api := humatest.New(t)
	v1.RegisterPlazaRoutes(api, store)

	resp := api.GetCtx(userCtx(uuid.New(), "customer"), "/plazas")
	require.Equal(t, http.StatusOK, resp.Code)

	var body []*v1.PlazaDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "Centro", body[0].Name)
	assert.False(t, body[1].Active)
}

func TestGetPlaza(t *testing.T) {
	t.Parallel()

	t.Run("missing_plaza_404", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			plazas: &mockPlazaRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.ParkingPlaza, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterPlazaRoutes(api, store)

		resp := api.GetCtx(userCtx(uuid.New(), "customer"), "/plazas/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestDeletePlaza(t *testing.T) {
	t.Parallel()

	t.Run("records_a_warn", func(t *testing.T) {
		t.Parallel()

		plazaID := uuid.New()
		store := &mockDataStore{
			plazas: &mockPlazaRepo{
				deleteFunc: func(_ context.Context, id uuid.UUID) error {
					assert.Equal(t, plazaID, id)
					return nil
				},
			},
		}
		rec := &captureRecorder{}
		_, api := humatest.New(t)
		v1.RegisterPlazaAdminRoutes(api, store, rec)

		resp := api.DeleteCtx(adminCtx(uuid.New()), "/plazas/"+plazaID.String())
		require.Equal(t, http.StatusNoContent, resp.Code)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.LevelWarn, entries[0].Level)
		assert.Equal(t, domain.ActionDeletePlaza, entries[0].Action)
	})

	t.Run("missing_plaza_404", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			plazas: &mockPlazaRepo{
				deleteFunc: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
			},
		}
		_, api := humatest.New(t)
		v1.RegisterPlazaAdminRoutes(api, store, &captureRecorder{})

		resp := api.DeleteCtx(adminCtx(uuid.New()), "/plazas/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestCreateSpace(t *testing.T) {
	t.Parallel()

	plazaID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store := &mockDataStore{
			plazas: &mockPlazaRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.ParkingPlaza, error) {
					return &domain.ParkingPlaza{ID: id}, nil
				},
			},
			spaces: &mockSpaceRepo{
				createFunc: func(_ context.Context, s *domain.ParkingSpace) error {
					assert.Equal(t, plazaID, s.PlazaID)
					assert.Equal(t, domain.SpaceStatusFree, s.Status)
					assert.Equal(t, domain.SpaceTypeElectric, s.SpaceType)
					return nil
				},
			},
		}
		rec := &captureRecorder{}
		_, api := humatest.New(t)
		v1.RegisterPlazaAdminRoutes(api, store, rec)

		resp := api.PostCtx(adminCtx(uuid.New()), "/plazas/"+plazaID.String()+"/spaces", map[string]any{
			"number":    "E-07",
			"spaceType": "electric",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		entries := rec.all()
		require.Len(t, entries, 1)
		assert.Equal(t, domain.ActionCreateSpace, entries[0].Action)
	})

	t.Run("unknown_space_type_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterPlazaAdminRoutes(api, &mockDataStore{}, &captureRecorder{})

		resp := api.PostCtx(adminCtx(uuid.New()), "/plazas/"+plazaID.String()+"/spaces", map[string]any{
			"number":    "X-01",
			"spaceType": "helipad",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestUpdateSpaceStatus(t *testing.T) {
	t.Parallel()

	spaceID := uuid.New()
	store := &mockDataStore{
		spaces: &mockSpaceRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
				return &domain.ParkingSpace{ID: id, Status: domain.SpaceStatusFree}, nil
			},
			updateStatusFunc: func(_ context.Context, _ uuid.UUID, status domain.SpaceStatus) error {
				assert.Equal(t, domain.SpaceStatusMaintenance, status)
				return nil
			},
		},
	}
	rec := &captureRecorder{}
	_, api := humatest.New(t)
	v1.RegisterPlazaAdminRoutes(api, store, rec)

	resp := api.PutCtx(adminCtx(uuid.New()), "/spaces/"+spaceID.String()+"/status", map[string]any{
		"status": "maintenance",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	entries := rec.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionUpdateSpace, entries[0].Action)
	assert.Equal(t, map[string]any{"status": "free"}, entries[0].Details.PreviousState)
	assert.Equal(t, map[string]any{"status": "maintenance"}, entries[0].Details.NewState)
}
