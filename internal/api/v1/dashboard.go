package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
)

const dashboardCacheKey = "audit:dashboard"

// DashboardBody is cached as a whole; every counter in it is a point-in-time
// snapshot, so a slightly stale copy is fine.
type DashboardBody struct {
	TotalUsers         int64            `json:"totalUsers"`
	TotalPlazas        int64            `json:"totalPlazas"`
	FreeSpaces         int64            `json:"freeSpaces"`
	ActiveReservations int64            `json:"activeReservations"`
	EventsToday        int64            `json:"eventsToday"`
	AlertLevel         audit.AlertLevel `json:"alertLevel"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}

type DashboardOutput struct {
	Body DashboardBody
}

// RegisterDashboardRoutes mounts the operator dashboard endpoint. cache may
// be nil.
func RegisterDashboardRoutes(api huma.API, store DataStore, stats AuditStats, cache audit.Cache, cacheTTL time.Duration) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Operational overview",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
		if cache != nil {
			var cached DashboardBody
			hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached)
			if err != nil {
				log.Warn().Err(err).Msg("dashboard cache read failed")
			} else if hit {
				return &DashboardOutput{Body: cached}, nil
			}
		}

		body := DashboardBody{GeneratedAt: time.Now()}

		var err error
		if body.TotalUsers, err = store.Users().Count(ctx); err != nil {
			return nil, huma.Error500InternalServerError("failed to build dashboard")
		}
		if body.TotalPlazas, err = store.Plazas().Count(ctx); err != nil {
			return nil, huma.Error500InternalServerError("failed to build dashboard")
		}
		if body.FreeSpaces, err = store.Spaces().CountByStatus(ctx, domain.SpaceStatusFree); err != nil {
			return nil, huma.Error500InternalServerError("failed to build dashboard")
		}
		if body.ActiveReservations, err = store.Reservations().CountByStatus(ctx, domain.ReservationStatusActive); err != nil {
			return nil, huma.Error500InternalServerError("failed to build dashboard")
		}
		if body.EventsToday, err = stats.EventsToday(ctx); err != nil {
			return nil, mapServiceError(err)
		}

		report, err := stats.RecentCritical(ctx, 24)
		if err != nil {
			return nil, mapServiceError(err)
		}
		body.AlertLevel = report.AlertLevel

		if cache != nil {
			if err := cache.SetJSON(ctx, dashboardCacheKey, body, cacheTTL); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}

		return &DashboardOutput{Body: body}, nil
	})
}
