package audit

import (
	"context"
	"time"

	"github.com/parkwise/parkd/internal/domain"
)

// mockEventRepo implements domain.EventRepository with overridable func
// fields. Unset methods fail the call with a nil-deref on purpose: a test
// that reaches an unexpected method should blow up, not silently pass.
type mockEventRepo struct {
	insert          func(ctx context.Context, e *domain.Event) error
	list            func(ctx context.Context, f domain.EventFilter, opts domain.EventListOptions) ([]*domain.Event, error)
	summarize       func(ctx context.Context, f domain.EventFilter, excludeSelfAudit bool) (*domain.EventSummary, error)
	statsByDay      func(ctx context.Context, since time.Time) ([]*domain.DailyEventStats, error)
	recentCritical  func(ctx context.Context, since time.Time, limit int) ([]*domain.Event, error)
	deleteOlderThan func(ctx context.Context, cutoff time.Time) (int64, error)
	countSince      func(ctx context.Context, since time.Time) (int64, error)
}

func (m *mockEventRepo) Insert(ctx context.Context, e *domain.Event) error {
	return m.insert(ctx, e)
}

func (m *mockEventRepo) List(ctx context.Context, f domain.EventFilter, opts domain.EventListOptions) ([]*domain.Event, error) {
	return m.list(ctx, f, opts)
}

func (m *mockEventRepo) Summarize(ctx context.Context, f domain.EventFilter, excludeSelfAudit bool) (*domain.EventSummary, error) {
	return m.summarize(ctx, f, excludeSelfAudit)
}

func (m *mockEventRepo) StatsByDay(ctx context.Context, since time.Time) ([]*domain.DailyEventStats, error) {
	return m.statsByDay(ctx, since)
}

func (m *mockEventRepo) RecentCritical(ctx context.Context, since time.Time, limit int) ([]*domain.Event, error) {
	return m.recentCritical(ctx, since, limit)
}

func (m *mockEventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.deleteOlderThan(ctx, cutoff)
}

func (m *mockEventRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return m.countSince(ctx, since)
}

func makeEvents(n int, level domain.Level) []*domain.Event {
	events := make([]*domain.Event, n)
	for i := range events {
		events[i] = &domain.Event{
			ID:        int64(n - i),
			Level:     level,
			Action:    domain.ActionSystemError,
			Message:   "boom",
			CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Minute),
		}
	}
	return events
}
