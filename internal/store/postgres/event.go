package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkwise/parkd/internal/domain"
)

// SelfAuditURLPrefix marks an event as the audit record of a logs listing
// request. Rows whose context URL starts with it are excluded from listings
// unless the caller filtered on action explicitly.
const SelfAuditURLPrefix = "/api/v1/audit/events"

const eventColumns = `id, level, action, message,
	COALESCE(user_id, ''), COALESCE(resource, ''), COALESCE(resource_id, ''),
	details, context, created_at, updated_at`

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Insert(ctx context.Context, e *domain.Event) error {
	var details, reqCtx []byte
	var err error

	if e.Details != nil {
		details, err = json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("eventRepo.Insert: marshal details: %w", err)
		}
	}
	if e.Context != nil {
		reqCtx, err = json.Marshal(e.Context)
		if err != nil {
			return fmt.Errorf("eventRepo.Insert: marshal context: %w", err)
		}
	}

	// The id and timestamps are store-assigned; a caller-supplied id is
	// never honored, which closes the forgery/overwrite path.
	err = r.pool.QueryRow(ctx,
		`INSERT INTO events (level, action, message, user_id, resource, resource_id, details, context)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.Level, e.Action, e.Message, e.UserID, e.Resource, e.ResourceID, details, reqCtx,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("eventRepo.Insert: %w", err)
	}

	return nil
}

func (r *EventRepo) List(ctx context.Context, f domain.EventFilter, opts domain.EventListOptions) ([]*domain.Event, error) {
	where, args := buildEventWhere(f, opts.ExcludeSelfAudit)

	q := "SELECT " + eventColumns + " FROM events" + where + orderClause(f.SortBy, f.SortOrder)
	args = append(args, opts.Limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.List: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, "eventRepo.List")
}

func (r *EventRepo) Summarize(ctx context.Context, f domain.EventFilter, excludeSelfAudit bool) (*domain.EventSummary, error) {
	where, args := buildEventWhere(f, excludeSelfAudit)

	var s domain.EventSummary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE level = 'error'),
		        COUNT(*) FILTER (WHERE level = 'warn'),
		        COUNT(*) FILTER (WHERE level = 'info'),
		        COUNT(*) FILTER (WHERE level = 'debug'),
		        COUNT(DISTINCT user_id),
		        MIN(created_at), MAX(created_at)
		 FROM events`+where,
		args...,
	).Scan(
		&s.Total, &s.ErrorCount, &s.WarnCount, &s.InfoCount, &s.DebugCount,
		&s.UniqueUsers, &s.Oldest, &s.Newest,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.Summarize: %w", err)
	}

	return &s, nil
}

func (r *EventRepo) StatsByDay(ctx context.Context, since time.Time) ([]*domain.DailyEventStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT created_at::date AS day, level, COUNT(*)
		 FROM events
		 WHERE created_at >= $1
		 GROUP BY day, level
		 ORDER BY day ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.StatsByDay: %w", err)
	}
	defer rows.Close()

	var out []*domain.DailyEventStats
	var current *domain.DailyEventStats
	for rows.Next() {
		var day time.Time
		var level domain.Level
		var count int64

		if err := rows.Scan(&day, &level, &count); err != nil {
			return nil, fmt.Errorf("eventRepo.StatsByDay: scan: %w", err)
		}

		date := day.Format("2006-01-02")
		if current == nil || current.Date != date {
			current = &domain.DailyEventStats{Date: date, ByLevel: make(map[domain.Level]int64)}
			out = append(out, current)
		}
		current.ByLevel[level] = count
		current.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("eventRepo.StatsByDay: rows: %w", err)
	}

	return out, nil
}

func (r *EventRepo) RecentCritical(ctx context.Context, since time.Time, limit int) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+eventColumns+` FROM events
		 WHERE level = 'error' AND created_at >= $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.RecentCritical: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, "eventRepo.RecentCritical")
}

func (r *EventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("eventRepo.DeleteOlderThan: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *EventRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE created_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("eventRepo.CountSince: %w", err)
	}

	return n, nil
}

// buildEventWhere translates an EventFilter into a WHERE clause and its
// positional args. List and Summarize share it so the page and the summary
// always see the same predicate.
func buildEventWhere(f domain.EventFilter, excludeSelfAudit bool) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Level != "" {
		conds = append(conds, "level = "+arg(string(f.Level)))
	}

	switch f.Action {
	case "":
	case domain.ActionReservationActivity:
		family := make([]string, 0, 3)
		for _, a := range domain.ReservationActions() {
			family = append(family, string(a))
		}
		conds = append(conds, "action = ANY("+arg(family)+")")
	default:
		conds = append(conds, "action = "+arg(string(f.Action)))
	}

	if f.UserID != "" {
		conds = append(conds, "user_id = "+arg(f.UserID))
	}
	if f.Resource != "" {
		conds = append(conds, "resource = "+arg(f.Resource))
	}
	if f.ResourceID != "" {
		conds = append(conds, "resource_id = "+arg(f.ResourceID))
	}
	if f.IP != "" {
		conds = append(conds, "context->>'ip' = "+arg(f.IP))
	}
	if f.StartDate != nil {
		conds = append(conds, "created_at >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "created_at <= "+arg(*f.EndDate))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, "(message ILIKE "+p+
			" OR COALESCE(details->>'error', '') ILIKE "+p+
			" OR COALESCE(details->>'reason', '') ILIKE "+p+
			" OR COALESCE(context->>'userAgent', '') ILIKE "+p+
			" OR COALESCE(user_id, '') ILIKE "+p+
			" OR COALESCE(resource_id, '') ILIKE "+p+")")
	}

	if excludeSelfAudit {
		conds = append(conds, "(context IS NULL OR COALESCE(context->>'url', '') NOT LIKE "+arg(SelfAuditURLPrefix+"%")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// sortColumns whitelists the sortable keys; anything else falls back to
// created_at. The query service validates first, this is the store's own floor.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"level":     "level",
	"action":    "action",
	"userId":    "user_id",
}

// orderClause builds a deterministic ORDER BY. Multiple events can share a
// created_at under load, so id (insertion-ordered, unique) always closes
// the ordering: same direction when sorting by created_at, descending
// (created_at, id) fallback for any other key.
func orderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}

	col, ok := sortColumns[sortBy]
	if !ok || col == "created_at" {
		return fmt.Sprintf(" ORDER BY created_at %s, id %s", dir, dir)
	}

	return fmt.Sprintf(" ORDER BY %s %s, created_at DESC, id DESC", col, dir)
}

func scanEvents(rows pgx.Rows, caller string) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		var details, reqCtx []byte

		if err := rows.Scan(
			&e.ID, &e.Level, &e.Action, &e.Message,
			&e.UserID, &e.Resource, &e.ResourceID,
			&details, &reqCtx, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		if len(details) > 0 {
			e.Details = &domain.EventDetails{}
			if err := json.Unmarshal(details, e.Details); err != nil {
				return nil, fmt.Errorf("%s: unmarshal details: %w", caller, err)
			}
		}
		if len(reqCtx) > 0 {
			e.Context = &domain.RequestContext{}
			if err := json.Unmarshal(reqCtx, e.Context); err != nil {
				return nil, fmt.Errorf("%s: unmarshal context: %w", caller, err)
			}
		}

		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return events, nil
}
