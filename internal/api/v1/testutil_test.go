package v1_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
	"github.com/parkwise/parkd/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers to inject user identity for DoCtx requests.
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func adminCtx(userID uuid.UUID) context.Context {
	return userCtx(userID, middleware.RoleAdmin)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users        domain.UserRepository
	plazas       domain.PlazaRepository
	spaces       domain.SpaceRepository
	vehicles     domain.VehicleRepository
	reservations domain.ReservationRepository
	events       domain.EventRepository
}

func (m *mockDataStore) Users() domain.UserRepository               { return m.users }
func (m *mockDataStore) Plazas() domain.PlazaRepository             { return m.plazas }
func (m *mockDataStore) Spaces() domain.SpaceRepository             { return m.spaces }
func (m *mockDataStore) Vehicles() domain.VehicleRepository         { return m.vehicles }
func (m *mockDataStore) Reservations() domain.ReservationRepository { return m.reservations }
func (m *mockDataStore) Events() domain.EventRepository             { return m.events }

// ---------------------------------------------------------------------------
// Recorder capture
// ---------------------------------------------------------------------------

type captureRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (c *captureRecorder) Record(e audit.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *captureRecorder) all() []audit.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]audit.Entry(nil), c.entries...)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	updateRoleFunc func(ctx context.Context, id uuid.UUID, role string) error
	listFunc       func(ctx context.Context, limit, offset int) ([]*domain.User, error)
	countFunc      func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return m.createFunc(ctx, u) }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return m.updateFunc(ctx, u) }

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return m.updateRoleFunc(ctx, id, role)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return m.listFunc(ctx, limit, offset)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) { return m.countFunc(ctx) }

// ---------------------------------------------------------------------------
// Mock PlazaRepository
// ---------------------------------------------------------------------------

type mockPlazaRepo struct {
	createFunc  func(ctx context.Context, p *domain.ParkingPlaza) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.ParkingPlaza, error)
	updateFunc  func(ctx context.Context, p *domain.ParkingPlaza) error
	listFunc    func(ctx context.Context) ([]*domain.ParkingPlaza, error)
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
	countFunc   func(ctx context.Context) (int64, error)
}

func (m *mockPlazaRepo) Create(ctx context.Context, p *domain.ParkingPlaza) error {
	return m.createFunc(ctx, p)
}

func (m *mockPlazaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingPlaza, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockPlazaRepo) Update(ctx context.Context, p *domain.ParkingPlaza) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPlazaRepo) List(ctx context.Context) ([]*domain.ParkingPlaza, error) {
	return m.listFunc(ctx)
}

func (m *mockPlazaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockPlazaRepo) Count(ctx context.Context) (int64, error) { return m.countFunc(ctx) }

// ---------------------------------------------------------------------------
// Mock SpaceRepository
// ---------------------------------------------------------------------------

type mockSpaceRepo struct {
	createFunc        func(ctx context.Context, s *domain.ParkingSpace) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error)
	listByPlazaFunc   func(ctx context.Context, plazaID uuid.UUID) ([]*domain.ParkingSpace, error)
	updateStatusFunc  func(ctx context.Context, id uuid.UUID, status domain.SpaceStatus) error
	updateFunc        func(ctx context.Context, s *domain.ParkingSpace) error
	countByStatusFunc func(ctx context.Context, status domain.SpaceStatus) (int64, error)
}

func (m *mockSpaceRepo) Create(ctx context.Context, s *domain.ParkingSpace) error {
	return m.createFunc(ctx, s)
}

func (m *mockSpaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSpaceRepo) ListByPlaza(ctx context.Context, plazaID uuid.UUID) ([]*domain.ParkingSpace, error) {
	return m.listByPlazaFunc(ctx, plazaID)
}

func (m *mockSpaceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SpaceStatus) error {
	return m.updateStatusFunc(ctx, id, status)
}

func (m *mockSpaceRepo) Update(ctx context.Context, s *domain.ParkingSpace) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSpaceRepo) CountByStatus(ctx context.Context, status domain.SpaceStatus) (int64, error) {
	return m.countByStatusFunc(ctx, status)
}

// ---------------------------------------------------------------------------
// Mock VehicleRepository
// ---------------------------------------------------------------------------

type mockVehicleRepo struct {
	createFunc     func(ctx context.Context, v *domain.Vehicle) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	getByPlateFunc func(ctx context.Context, plate string) (*domain.Vehicle, error)
	listByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	return m.createFunc(ctx, v)
}

func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockVehicleRepo) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return m.getByPlateFunc(ctx, plate)
}

func (m *mockVehicleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ReservationRepository
// ---------------------------------------------------------------------------

type mockReservationRepo struct {
	createFunc            func(ctx context.Context, r *domain.Reservation) error
	getByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	listByUserFunc        func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error)
	hasActiveForSpaceFunc func(ctx context.Context, spaceID uuid.UUID) (bool, error)
	updateStatusFunc      func(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error
	countByStatusFunc     func(ctx context.Context, status domain.ReservationStatus) (int64, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	return m.createFunc(ctx, r)
}

func (m *mockReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockReservationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	return m.listByUserFunc(ctx, userID, limit, offset)
}

func (m *mockReservationRepo) HasActiveForSpace(ctx context.Context, spaceID uuid.UUID) (bool, error) {
	return m.hasActiveForSpaceFunc(ctx, spaceID)
}

func (m *mockReservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	return m.updateStatusFunc(ctx, id, status)
}

func (m *mockReservationRepo) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error) {
	return m.countByStatusFunc(ctx, status)
}

// ---------------------------------------------------------------------------
// Mock audit services
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc func(ctx context.Context, email, password, name, phone string) (*domain.User, error)
	loginFunc    func(ctx context.Context, email, password string) (*domain.User, string, string, error)
	refreshFunc  func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name, phone string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name, phone)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

type mockAuditQuery struct {
	eventsFunc func(ctx context.Context, f domain.EventFilter, page, pageSize int) (*domain.EventPage, error)
}

func (m *mockAuditQuery) Events(ctx context.Context, f domain.EventFilter, page, pageSize int) (*domain.EventPage, error) {
	return m.eventsFunc(ctx, f, page, pageSize)
}

type mockAuditStats struct {
	statisticsByDayFunc func(ctx context.Context, daysBack int) ([]*domain.DailyEventStats, error)
	recentCriticalFunc  func(ctx context.Context, windowHours int) (*audit.CriticalReport, error)
	eventsTodayFunc     func(ctx context.Context) (int64, error)
}

func (m *mockAuditStats) StatisticsByDay(ctx context.Context, daysBack int) ([]*domain.DailyEventStats, error) {
	return m.statisticsByDayFunc(ctx, daysBack)
}

func (m *mockAuditStats) RecentCritical(ctx context.Context, windowHours int) (*audit.CriticalReport, error) {
	return m.recentCriticalFunc(ctx, windowHours)
}

func (m *mockAuditStats) EventsToday(ctx context.Context) (int64, error) {
	return m.eventsTodayFunc(ctx)
}

type mockSweeper struct {
	sweepFunc func(ctx context.Context, ageThresholdDays int, actorID string) (int64, error)
}

func (m *mockSweeper) Sweep(ctx context.Context, ageThresholdDays int, actorID string) (int64, error) {
	return m.sweepFunc(ctx, ageThresholdDays, actorID)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func fixtureEvent(id int64, level domain.Level) *domain.Event {
	return &domain.Event{
		ID:        id,
		Level:     level,
		Action:    domain.ActionLogin,
		Message:   "user logged in",
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}
