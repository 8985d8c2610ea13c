package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/parkwise/parkd/internal/domain"
	"github.com/parkwise/parkd/internal/server/middleware"
)

// EventDTO is the wire shape of one audit event.
type EventDTO struct {
	ID         int64                  `json:"id"`
	Level      domain.Level           `json:"level"`
	Action     domain.Action          `json:"action"`
	Message    string                 `json:"message"`
	UserID     string                 `json:"userId,omitempty"`
	Resource   string                 `json:"resource,omitempty"`
	ResourceID string                 `json:"resourceId,omitempty"`
	Details    *domain.EventDetails   `json:"details,omitempty"`
	Context    *domain.RequestContext `json:"context,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func toEventDTO(e *domain.Event) *EventDTO {
	return &EventDTO{
		ID:         e.ID,
		Level:      e.Level,
		Action:     e.Action,
		Message:    e.Message,
		UserID:     e.UserID,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Details:    e.Details,
		Context:    e.Context,
		CreatedAt:  e.CreatedAt,
	}
}

func toEventDTOs(events []*domain.Event) []*EventDTO {
	out := make([]*EventDTO, len(events))
	for i, e := range events {
		out[i] = toEventDTO(e)
	}
	return out
}

// EventFilterParams is the shared query-parameter block of the listing and
// export endpoints.
type EventFilterParams struct {
	Level      string    `query:"level" enum:"error,warn,info,debug," doc:"Filter by severity"`
	Action     string    `query:"action" doc:"Filter by action"`
	UserID     string    `query:"userId" doc:"Filter by acting user"`
	Resource   string    `query:"resource" doc:"Filter by resource type"`
	ResourceID string    `query:"resourceId" doc:"Filter by resource ID"`
	IP         string    `query:"ip" doc:"Filter by client IP"`
	StartDate  time.Time `query:"startDate" doc:"Inclusive lower bound on createdAt"`
	EndDate    time.Time `query:"endDate" doc:"Inclusive upper bound on createdAt"`
	Search     string    `query:"search" doc:"Free-text search over message, user, resource and error fields"`
}

func (p *EventFilterParams) toFilter() domain.EventFilter {
	f := domain.EventFilter{
		Level:      domain.Level(p.Level),
		Action:     domain.Action(p.Action),
		UserID:     p.UserID,
		Resource:   p.Resource,
		ResourceID: p.ResourceID,
		IP:         p.IP,
		Search:     p.Search,
	}
	if !p.StartDate.IsZero() {
		start := p.StartDate
		f.StartDate = &start
	}
	if !p.EndDate.IsZero() {
		end := p.EndDate
		f.EndDate = &end
	}
	return f
}

type ListEventsInput struct {
	EventFilterParams
	SortBy    string `query:"sortBy" enum:"createdAt,level,action,userId," doc:"Sort key"`
	SortOrder string `query:"sortOrder" enum:"asc,desc," doc:"Sort direction"`
	Page      int    `query:"page" minimum:"1" default:"1" doc:"Page number"`
	PageSize  int    `query:"pageSize" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

type SummaryDTO struct {
	Total       int64      `json:"total"`
	ErrorCount  int64      `json:"errorCount"`
	WarnCount   int64      `json:"warnCount"`
	InfoCount   int64      `json:"infoCount"`
	DebugCount  int64      `json:"debugCount"`
	UniqueUsers int64      `json:"uniqueUsers"`
	Oldest      *time.Time `json:"oldest,omitempty"`
	Newest      *time.Time `json:"newest,omitempty"`
}

type PaginationDTO struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ListEventsOutput struct {
	Body struct {
		Events     []*EventDTO   `json:"events"`
		Pagination PaginationDTO `json:"pagination"`
		Summary    SummaryDTO    `json:"summary"`
	}
}

type SweepEventsInput struct {
	Body struct {
		AgeThresholdDays int `json:"ageThresholdDays" minimum:"1" doc:"Delete events older than this many days"`
	}
}

type SweepEventsOutput struct {
	Body struct {
		Removed int64 `json:"removed"`
	}
}

// RegisterEventRoutes mounts the audit log listing and retention endpoints.
func RegisterEventRoutes(api huma.API, query AuditQuery, sweeper AuditSweeper) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-events",
		Method:      http.MethodGet,
		Path:        "/audit/events",
		Summary:     "List audit events",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
		f := input.toFilter()
		f.SortBy = input.SortBy
		f.SortOrder = input.SortOrder

		page, err := query.Events(ctx, f, input.Page, input.PageSize)
		if err != nil {
			return nil, mapServiceError(err)
		}

		out := &ListEventsOutput{}
		out.Body.Events = toEventDTOs(page.Events)
		out.Body.Pagination = PaginationDTO{
			Total:       page.Pagination.Total,
			Page:        page.Pagination.Page,
			PageSize:    page.Pagination.PageSize,
			TotalPages:  page.Pagination.TotalPages,
			HasNext:     page.Pagination.HasNext,
			HasPrevious: page.Pagination.HasPrevious,
		}
		out.Body.Summary = SummaryDTO{
			Total:       page.Summary.Total,
			ErrorCount:  page.Summary.ErrorCount,
			WarnCount:   page.Summary.WarnCount,
			InfoCount:   page.Summary.InfoCount,
			DebugCount:  page.Summary.DebugCount,
			UniqueUsers: page.Summary.UniqueUsers,
			Oldest:      page.Summary.Oldest,
			Newest:      page.Summary.Newest,
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sweep-audit-events",
		Method:      http.MethodDelete,
		Path:        "/audit/events",
		Summary:     "Delete audit events older than a threshold",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *SweepEventsInput) (*SweepEventsOutput, error) {
		actorID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		removed, err := sweeper.Sweep(ctx, input.Body.AgeThresholdDays, actorID.String())
		if err != nil {
			return nil, mapServiceError(err)
		}

		out := &SweepEventsOutput{}
		out.Body.Removed = removed
		return out, nil
	})
}
