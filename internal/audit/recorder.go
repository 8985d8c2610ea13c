// Package audit implements the audit/event engine: a best-effort write path
// (Recorder) and an administrator read path (QueryService, StatsService,
// ExportService, Retention) over the append-only event store.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/domain"
)

const recordTimeout = 5 * time.Second

// Entry describes one event to record. Level, Action and Message are
// required; everything else is optional correlation data.
type Entry struct {
	Level      domain.Level
	Action     domain.Action
	Message    string
	UserID     string
	Resource   string
	ResourceID string
	Details    *domain.EventDetails
	Context    *domain.RequestContext
}

// Recorder is the ingestion service. Record never returns an error and never
// blocks on storage: audit logging is a side effect of a business operation
// and must not turn a successful operation into a failed one, nor create
// backpressure into it. A failed write is dropped after being reported on
// the process log.
type Recorder struct {
	events  domain.EventRepository
	timeout time.Duration
}

func NewRecorder(events domain.EventRepository) *Recorder {
	return &Recorder{events: events, timeout: recordTimeout}
}

// Record validates the entry and appends it asynchronously. Invalid entries
// are a caller bug: they are dropped with a warning, not stored.
func (r *Recorder) Record(e Entry) {
	if !e.Level.Valid() {
		log.Warn().Str("level", string(e.Level)).Str("action", string(e.Action)).
			Msg("audit: entry dropped, unknown level")
		return
	}
	if !e.Action.Valid() {
		log.Warn().Str("action", string(e.Action)).
			Msg("audit: entry dropped, unknown action")
		return
	}
	if e.Message == "" {
		log.Warn().Str("action", string(e.Action)).
			Msg("audit: entry dropped, empty message")
		return
	}

	// Detached context: the caller's request may finish (or fail) before
	// the write lands, and neither outcome may couple back.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		ev := &domain.Event{
			Level:      e.Level,
			Action:     e.Action,
			Message:    e.Message,
			UserID:     e.UserID,
			Resource:   e.Resource,
			ResourceID: e.ResourceID,
			Details:    e.Details,
			Context:    e.Context,
		}

		if err := r.events.Insert(ctx, ev); err != nil {
			// No retry: dropping the event is the contract, invisibility is not.
			log.Error().Err(err).
				Str("action", string(e.Action)).
				Str("level", string(e.Level)).
				Msg("audit: event dropped, store write failed")
		}
	}()
}
