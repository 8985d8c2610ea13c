package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/audit/export"
	"github.com/parkwise/parkd/internal/domain"
)

// Export limits. A request above the ceiling is capped, not rejected, so a
// "give me everything" export still succeeds with the largest allowed slice.
const (
	DefaultExportRecords = 10000
	ExportCeiling        = 50000
)

// ErrExportFailed masks store failures on the export path the same way
// ErrQueryFailed does on the read path.
var ErrExportFailed = errors.New("audit: export failed")

// ExportService renders filtered event sets as downloadable files. It shares
// the read path's filter semantics: action filters suppress free-text search,
// and self-audit noise is excluded unless an action filter is present.
type ExportService struct {
	events domain.EventRepository
	now    func() time.Time
}

func NewExportService(events domain.EventRepository) *ExportService {
	return &ExportService{events: events, now: time.Now}
}

// Export fetches up to maxRecords matching events (newest first unless the
// filter orders otherwise) and encodes them in the requested format.
// maxRecords <= 0 selects the default; values above the ceiling are capped.
// An empty result is a caller error: there is nothing to download.
func (s *ExportService) Export(ctx context.Context, format string, f domain.EventFilter, maxRecords int) (*export.File, error) {
	fm, err := export.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if err := ValidateFilter(&f); err != nil {
		return nil, err
	}

	if maxRecords <= 0 {
		maxRecords = DefaultExportRecords
	}
	if maxRecords > ExportCeiling {
		maxRecords = ExportCeiling
	}

	if f.Action != "" {
		f.Search = ""
	}
	opts := domain.EventListOptions{
		Limit:            maxRecords,
		ExcludeSelfAudit: f.Action == "",
	}

	var events []*domain.Event
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.events.List(ctx, f, opts)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("format", string(fm)).Msg("audit: export query failed")
		return nil, ErrExportFailed
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events match the export filter", domain.ErrValidation)
	}

	flat := make([]export.FlatEvent, len(events))
	for i, e := range events {
		flat[i] = export.Flatten(e)
	}

	file, err := export.Encode(fm, flat, s.now())
	if err != nil {
		log.Error().Err(err).Str("format", string(fm)).Msg("audit: export encoding failed")
		return nil, ErrExportFailed
	}

	log.Info().
		Str("format", string(fm)).
		Int("records", len(flat)).
		Msg("audit: export generated")

	return file, nil
}
