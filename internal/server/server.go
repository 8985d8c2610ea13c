// Package server wires the chi router, middleware stacks and versioned API
// groups into one HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/config"
	"github.com/parkwise/parkd/internal/server/middleware"
	"github.com/parkwise/parkd/internal/store/postgres"
	redisstore "github.com/parkwise/parkd/internal/store/redis"
)

// Services groups the audit engine pieces the router depends on.
type Services struct {
	Recorder  *audit.Recorder
	Query     *audit.QueryService
	Stats     *audit.StatsService
	Exporter  *audit.ExportService
	Retention *audit.Retention
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds the lifetime of the
// rate limiter cleanup goroutines. cache may be nil.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, cache *redisstore.Cache, authSvc *auth.Service, svcs Services) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		store:  store,
		auth:   authSvc,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with four sub-groups:
	// 1. Unauthenticated group for auth endpoints, limited per IP.
	// 2. Authenticated group for the parking domain.
	// 3. Staff group for plaza and space management.
	// 4. Admin-only group for user administration and the audit surface.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 5, 10))

			authConfig := huma.DefaultConfig("Parkd Auth API", "1.0.0")
			authConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
			authAPI := humachi.New(r, authConfig)
			registerAuthRoutes(authAPI, authSvc, svcs.Recorder)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RateLimit(ctx, 100, 200))
			r.Use(middleware.AuditCapture(svcs.Recorder))

			apiConfig := huma.DefaultConfig("Parkd API", "1.0.0")
			apiConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, store, svcs)

			// Plaza management: admins and operators, nested so the role
			// check wraps the huma operations registered on the subrouter.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff())

				staffConfig := huma.DefaultConfig("Parkd Staff API", "1.0.0")
				staffConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
				staffAPI := humachi.New(r, staffConfig)
				registerStaffRoutes(staffAPI, store, svcs)
			})

			// User administration and the audit surface: admin-only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				adminConfig := huma.DefaultConfig("Parkd Admin API", "1.0.0")
				adminConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
				adminAPI := humachi.New(r, adminConfig)
				registerAdminRoutes(adminAPI, cfg, store, cache, svcs)
			})
		})
	})

	// Health check (unauthenticated). Pings both datastores so load
	// balancers pull the instance before requests start failing.
	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		pingCtx, pingCancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer pingCancel()

		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(pingCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable","component":"postgres"}`))
			return
		}
		if cache != nil {
			if err := cache.Ping(pingCtx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable","component":"redis"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
