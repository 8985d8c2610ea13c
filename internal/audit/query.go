package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/domain"
)

// Pagination bounds. Page size above the maximum is a caller error, not a
// silent clamp.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrQueryFailed is the only store-failure error callers see on the read
// path; internal detail goes to the process log, never to the administrator.
var ErrQueryFailed = errors.New("audit: query failed")

var sortKeys = map[string]struct{}{
	"createdAt": {}, "level": {}, "action": {}, "userId": {},
}

// QueryService is the administrator read path over the event store.
type QueryService struct {
	events domain.EventRepository
}

func NewQueryService(events domain.EventRepository) *QueryService {
	return &QueryService{events: events}
}

// Events runs one filtered, paginated, deterministically ordered read plus
// an aggregate summary over the same predicate (the whole matching set, not
// the current page).
//
// Two behaviors are intentional and not caller-controllable: free-text
// search is suppressed when an explicit action filter is present (the OR
// search would silently widen a precise filter), and events recording a
// logs-listing request are excluded unless an action filter is given, so
// viewing the logs does not pollute the page being viewed.
func (s *QueryService) Events(ctx context.Context, f domain.EventFilter, page, pageSize int) (*domain.EventPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: pageSize must be >= 1", domain.ErrValidation)
	}
	if pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: pageSize must be <= %d", domain.ErrValidation, MaxPageSize)
	}
	if err := ValidateFilter(&f); err != nil {
		return nil, err
	}

	if f.Action != "" {
		f.Search = ""
	}
	excludeSelfAudit := f.Action == ""

	opts := domain.EventListOptions{
		Offset:           (page - 1) * pageSize,
		Limit:            pageSize,
		ExcludeSelfAudit: excludeSelfAudit,
	}

	var events []*domain.Event
	var summary *domain.EventSummary

	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.events.List(ctx, f, opts)
		if err != nil {
			return err
		}
		summary, err = s.events.Summarize(ctx, f, excludeSelfAudit)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("audit: events query failed")
		return nil, ErrQueryFailed
	}

	totalPages := int((summary.Total + int64(pageSize) - 1) / int64(pageSize))

	return &domain.EventPage{
		Events: events,
		Pagination: domain.Pagination{
			Total:       summary.Total,
			Page:        page,
			PageSize:    pageSize,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
		Summary: *summary,
	}, nil
}

// ValidateFilter rejects unknown enum values, sort keys and inverted date
// ranges before anything reaches the store.
func ValidateFilter(f *domain.EventFilter) error {
	if f.Level != "" && !f.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", domain.ErrValidation, f.Level)
	}
	if f.Action != "" && !f.Action.Valid() && f.Action != domain.ActionReservationActivity {
		return fmt.Errorf("%w: unknown action %q", domain.ErrValidation, f.Action)
	}
	if f.SortBy != "" {
		if _, ok := sortKeys[f.SortBy]; !ok {
			return fmt.Errorf("%w: unknown sort key %q", domain.ErrValidation, f.SortBy)
		}
	}
	switch strings.ToLower(f.SortOrder) {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: sort order must be asc or desc, got %q", domain.ErrValidation, f.SortOrder)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", domain.ErrValidation)
	}

	return nil
}
