package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/domain"
)

// ErrSweepFailed is the generic failure surfaced by the retention sweep.
var ErrSweepFailed = errors.New("audit: retention sweep failed")

// Retention is the administrative age-based bulk delete, the only path that
// ever removes events. Safe to re-run: a second sweep with the same
// threshold deletes nothing.
type Retention struct {
	events   domain.EventRepository
	recorder *Recorder
}

func NewRetention(events domain.EventRepository, recorder *Recorder) *Retention {
	return &Retention{events: events, recorder: recorder}
}

// Sweep deletes events older than ageThresholdDays and returns the removed
// count. The sweep itself is recorded as a cleanup_logs event attributed to
// actorID ("system" for the scheduled run).
func (r *Retention) Sweep(ctx context.Context, ageThresholdDays int, actorID string) (int64, error) {
	if ageThresholdDays < 1 {
		return 0, fmt.Errorf("%w: ageThresholdDays must be >= 1", domain.ErrValidation)
	}

	cutoff := time.Now().AddDate(0, 0, -ageThresholdDays)

	removed, err := r.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Int("age_threshold_days", ageThresholdDays).Msg("audit: retention sweep failed")
		return 0, ErrSweepFailed
	}

	log.Info().Int64("removed", removed).Int("age_threshold_days", ageThresholdDays).
		Msg("audit: retention sweep completed")

	r.recorder.Record(Entry{
		Level:   domain.LevelWarn,
		Action:  domain.ActionCleanupLogs,
		Message: fmt.Sprintf("retention sweep removed %d events older than %d days", removed, ageThresholdDays),
		UserID:  actorID,
		Details: &domain.EventDetails{
			Metadata: map[string]any{
				"removed":          removed,
				"ageThresholdDays": ageThresholdDays,
			},
		},
	})

	return removed, nil
}
