package v1

import (
	"context"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/audit/export"
	"github.com/parkwise/parkd/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Plazas() domain.PlazaRepository
	Spaces() domain.SpaceRepository
	Vehicles() domain.VehicleRepository
	Reservations() domain.ReservationRepository
	Events() domain.EventRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name, phone string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (user *domain.User, accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Recorder is the audit write path. *audit.Recorder satisfies it.
type Recorder interface {
	Record(e audit.Entry)
}

// AuditQuery is the filtered event read path. *audit.QueryService satisfies it.
type AuditQuery interface {
	Events(ctx context.Context, f domain.EventFilter, page, pageSize int) (*domain.EventPage, error)
}

// AuditStats serves rollups and the critical window. *audit.StatsService
// satisfies it.
type AuditStats interface {
	StatisticsByDay(ctx context.Context, daysBack int) ([]*domain.DailyEventStats, error)
	RecentCritical(ctx context.Context, windowHours int) (*audit.CriticalReport, error)
	EventsToday(ctx context.Context) (int64, error)
}

// AuditExporter renders filtered events to a file. *audit.ExportService
// satisfies it.
type AuditExporter interface {
	Export(ctx context.Context, format string, f domain.EventFilter, maxRecords int) (*export.File, error)
}

// AuditSweeper is the retention delete path. *audit.Retention satisfies it.
type AuditSweeper interface {
	Sweep(ctx context.Context, ageThresholdDays int, actorID string) (int64, error)
}
