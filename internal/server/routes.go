package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/parkwise/parkd/internal/api/v1"
	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/config"
	"github.com/parkwise/parkd/internal/store/postgres"
	redisstore "github.com/parkwise/parkd/internal/store/redis"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service, rec *audit.Recorder) {
	v1.RegisterAuthRoutes(api, authSvc, rec)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, svcs Services) {
	v1.RegisterLogoutRoute(api, svcs.Recorder)
	v1.RegisterUserRoutes(api, store, svcs.Recorder)
	v1.RegisterPlazaRoutes(api, store)
	v1.RegisterVehicleRoutes(api, store, svcs.Recorder)
	v1.RegisterReservationRoutes(api, store, svcs.Recorder)
}

func registerStaffRoutes(api huma.API, store *postgres.Store, svcs Services) {
	v1.RegisterPlazaAdminRoutes(api, store, svcs.Recorder)
}

func registerAdminRoutes(api huma.API, cfg *config.Config, store *postgres.Store, cache *redisstore.Cache, svcs Services) {
	v1.RegisterUserAdminRoutes(api, store, svcs.Recorder)
	v1.RegisterEventRoutes(api, svcs.Query, svcs.Retention)
	v1.RegisterStatsRoutes(api, svcs.Stats)
	v1.RegisterExportRoutes(api, svcs.Exporter)

	var dashCache audit.Cache
	if cache != nil {
		dashCache = cache
	}
	v1.RegisterDashboardRoutes(api, store, svcs.Stats, dashCache, cfg.Audit.CacheTTL)
}
