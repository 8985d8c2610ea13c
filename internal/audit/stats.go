package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/domain"
)

// Window bounds for the statistics endpoints.
const (
	MaxDaysBack       = 90
	MaxWindowHours    = 7 * 24
	RecentCriticalCap = 100
)

// AlertLevel classifies recent critical-event volume.
type AlertLevel string

const (
	AlertLevelLow    AlertLevel = "LOW"
	AlertLevelMedium AlertLevel = "MEDIUM"
	AlertLevelHigh   AlertLevel = "HIGH"
)

// AlertThresholds are the two fixed cut-offs for ClassifyAlert: more than
// High critical events in the window is HIGH, more than Medium is MEDIUM,
// anything else LOW. Data, not hidden logic.
var AlertThresholds = struct {
	High   int
	Medium int
}{High: 50, Medium: 10}

// ClassifyAlert is a pure function of the critical-event count.
func ClassifyAlert(criticalCount int) AlertLevel {
	switch {
	case criticalCount > AlertThresholds.High:
		return AlertLevelHigh
	case criticalCount > AlertThresholds.Medium:
		return AlertLevelMedium
	default:
		return AlertLevelLow
	}
}

// Cache is the optional read-side cache for statistics results.
// *redis.Cache satisfies it; nil disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// CriticalReport is the capped recent-critical window plus its derived
// alert classification.
type CriticalReport struct {
	Events      []*domain.Event
	Count       int
	AlertLevel  AlertLevel
	WindowHours int
}

// StatsService computes time-bucketed rollups and critical-window reports.
type StatsService struct {
	events   domain.EventRepository
	cache    Cache
	cacheTTL time.Duration
}

func NewStatsService(events domain.EventRepository, cache Cache, cacheTTL time.Duration) *StatsService {
	return &StatsService{events: events, cache: cache, cacheTTL: cacheTTL}
}

// StatisticsByDay returns per-day, per-level event counts for the trailing
// daysBack window, oldest day first.
func (s *StatsService) StatisticsByDay(ctx context.Context, daysBack int) ([]*domain.DailyEventStats, error) {
	if daysBack < 1 || daysBack > MaxDaysBack {
		return nil, fmt.Errorf("%w: daysBack must be 1-%d", domain.ErrValidation, MaxDaysBack)
	}

	key := fmt.Sprintf("audit:stats:daily:%d", daysBack)
	var cached []*domain.DailyEventStats
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	since := time.Now().AddDate(0, 0, -daysBack)

	var stats []*domain.DailyEventStats
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.events.StatsByDay(ctx, since)
		return err
	})
	if err != nil {
		log.Error().Err(err).Int("days_back", daysBack).Msg("audit: daily statistics query failed")
		return nil, ErrQueryFailed
	}

	s.cacheSet(ctx, key, stats)
	return stats, nil
}

// RecentCritical returns error-level events in the trailing window, newest
// first, capped at RecentCriticalCap so a bursty window cannot blow up the
// response, with the derived alert level.
func (s *StatsService) RecentCritical(ctx context.Context, windowHours int) (*CriticalReport, error) {
	if windowHours < 1 || windowHours > MaxWindowHours {
		return nil, fmt.Errorf("%w: windowHours must be 1-%d", domain.ErrValidation, MaxWindowHours)
	}

	key := fmt.Sprintf("audit:stats:critical:%d", windowHours)
	var cached CriticalReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	since := time.Now().Add(-time.Duration(windowHours) * time.Hour)

	var events []*domain.Event
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.events.RecentCritical(ctx, since, RecentCriticalCap)
		return err
	})
	if err != nil {
		log.Error().Err(err).Int("window_hours", windowHours).Msg("audit: critical window query failed")
		return nil, ErrQueryFailed
	}

	report := &CriticalReport{
		Events:      events,
		Count:       len(events),
		AlertLevel:  ClassifyAlert(len(events)),
		WindowHours: windowHours,
	}

	s.cacheSet(ctx, key, report)
	return report, nil
}

// EventsToday counts events since local midnight, used by the dashboard.
func (s *StatsService) EventsToday(ctx context.Context) (int64, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var n int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.events.CountSince(ctx, midnight)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("audit: events-today count failed")
		return 0, ErrQueryFailed
	}

	return n, nil
}

// Cache failures are soft: log and fall through to postgres.
func (s *StatsService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("audit: stats cache read failed")
		return false
	}
	return hit
}

func (s *StatsService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("audit: stats cache write failed")
	}
}
