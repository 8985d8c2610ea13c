package domain

import (
	"context"
	"time"
)

// Level is the severity of an audit event.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Levels lists every severity, highest first.
func Levels() []Level {
	return []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}
}

func (l Level) Valid() bool {
	switch l {
	case LevelError, LevelWarn, LevelInfo, LevelDebug:
		return true
	}
	return false
}

// Action identifies what operation an audit event records. The set is closed:
// the ingestion boundary rejects anything else.
type Action string

const (
	ActionLogin             Action = "login"
	ActionLogout            Action = "logout"
	ActionRegister          Action = "register"
	ActionCreateReservation Action = "create_reservation"
	ActionCancelReservation Action = "cancel_reservation"
	ActionFinishReservation Action = "finish_reservation"
	ActionCreateVehicle     Action = "create_vehicle"
	ActionDeleteVehicle     Action = "delete_vehicle"
	ActionUpdateUser        Action = "update_user"
	ActionDeleteUser        Action = "delete_user"
	ActionRoleChange        Action = "role_change"
	ActionCreatePlaza       Action = "create_plaza"
	ActionUpdatePlaza       Action = "update_plaza"
	ActionDeletePlaza       Action = "delete_plaza"
	ActionCreateSpace       Action = "create_space"
	ActionUpdateSpace       Action = "update_space"
	ActionAccessLogs        Action = "access_logs"
	ActionExportLogs        Action = "export_logs"
	ActionViewCritical      Action = "view_critical"
	ActionViewStatistics    Action = "view_statistics"
	ActionHealthCheck       Action = "health_check"
	ActionCleanupLogs       Action = "cleanup_logs"
	ActionSystemError       Action = "system_error"
)

// ActionReservationActivity is a named convenience filter that expands to the
// reservation-family actions. It is never stored on an event.
const ActionReservationActivity Action = "reservation_activity"

var validActions = map[Action]struct{}{
	ActionLogin: {}, ActionLogout: {}, ActionRegister: {},
	ActionCreateReservation: {}, ActionCancelReservation: {}, ActionFinishReservation: {},
	ActionCreateVehicle: {}, ActionDeleteVehicle: {},
	ActionUpdateUser: {}, ActionDeleteUser: {}, ActionRoleChange: {},
	ActionCreatePlaza: {}, ActionUpdatePlaza: {}, ActionDeletePlaza: {},
	ActionCreateSpace: {}, ActionUpdateSpace: {},
	ActionAccessLogs: {}, ActionExportLogs: {}, ActionViewCritical: {},
	ActionViewStatistics: {}, ActionHealthCheck: {}, ActionCleanupLogs: {},
	ActionSystemError: {},
}

func (a Action) Valid() bool {
	_, ok := validActions[a]
	return ok
}

// ReservationActions is the expansion of ActionReservationActivity.
func ReservationActions() []Action {
	return []Action{ActionCreateReservation, ActionCancelReservation, ActionFinishReservation}
}

// EventDetails is the optional free-form payload of an event, stored as JSONB.
type EventDetails struct {
	PreviousState map[string]any `json:"previousState,omitempty"`
	NewState      map[string]any `json:"newState,omitempty"`
	Error         string         `json:"error,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	StackTrace    string         `json:"stackTrace,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// RequestContext captures the transport-level context of the request that
// produced an event, stored as JSONB.
type RequestContext struct {
	Method       string `json:"method,omitempty"`
	URL          string `json:"url,omitempty"`
	StatusCode   int    `json:"statusCode,omitempty"`
	ResponseTime int64  `json:"responseTime,omitempty"` // milliseconds
	IP           string `json:"ip,omitempty"`
	UserAgent    string `json:"userAgent,omitempty"`
	Device       string `json:"device,omitempty"`
}

// Event is one immutable audit record. The ID is assigned by the store
// (BIGSERIAL) and is unique and insertion-ordered, which makes it the
// tie-break key for any ordering on created_at.
type Event struct {
	ID         int64
	Level      Level
	Action     Action
	Message    string
	UserID     string // optional actor, empty when unknown
	Resource   string
	ResourceID string
	Details    *EventDetails
	Context    *RequestContext
	CreatedAt  time.Time
	UpdatedAt  time.Time // events are immutable; kept for schema symmetry
}

// EventFilter is the administrator-facing filter set. Zero values mean
// "no constraint". Dates are inclusive on both ends.
type EventFilter struct {
	Level      Level
	Action     Action
	UserID     string
	Resource   string
	ResourceID string
	IP         string
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	SortBy     string // createdAt (default), level, action, userId
	SortOrder  string // asc | desc (default)
}

// EventListOptions carries pagination and the internal-only self-audit
// exclusion to the store. ExcludeSelfAudit is never caller-visible.
type EventListOptions struct {
	Offset           int
	Limit            int
	ExcludeSelfAudit bool
}

// EventSummary aggregates the whole filtered set, independent of pagination.
type EventSummary struct {
	Total       int64
	ErrorCount  int64
	WarnCount   int64
	InfoCount   int64
	DebugCount  int64
	UniqueUsers int64
	Oldest      *time.Time // nil when the filtered set is empty
	Newest      *time.Time
}

// Pagination describes the page window of a query result.
type Pagination struct {
	Total       int64
	Page        int
	PageSize    int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// EventPage is the full result of one events query.
type EventPage struct {
	Events     []*Event
	Pagination Pagination
	Summary    EventSummary
}

// DailyEventStats is one calendar day of level-bucketed event counts.
type DailyEventStats struct {
	Date    string // YYYY-MM-DD
	Total   int64
	ByLevel map[Level]int64
}

// EventRepository is the append-only event store. There is no update path;
// DeleteOlderThan exists only for the administrative retention sweep.
type EventRepository interface {
	Insert(ctx context.Context, e *Event) error
	List(ctx context.Context, f EventFilter, opts EventListOptions) ([]*Event, error)
	Summarize(ctx context.Context, f EventFilter, excludeSelfAudit bool) (*EventSummary, error)
	StatsByDay(ctx context.Context, since time.Time) ([]*DailyEventStats, error)
	RecentCritical(ctx context.Context, since time.Time, limit int) ([]*Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
