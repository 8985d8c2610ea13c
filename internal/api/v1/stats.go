package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
)

type DailyStatsDTO struct {
	Date    string                 `json:"date"`
	Total   int64                  `json:"total"`
	ByLevel map[domain.Level]int64 `json:"byLevel"`
}

type StatisticsInput struct {
	DaysBack int `query:"daysBack" minimum:"1" maximum:"90" default:"7" doc:"Trailing window in days"`
}

type StatisticsOutput struct {
	Body struct {
		DaysBack int              `json:"daysBack"`
		Days     []*DailyStatsDTO `json:"days"`
	}
}

type CriticalInput struct {
	WindowHours int `query:"windowHours" minimum:"1" maximum:"168" default:"24" doc:"Trailing window in hours"`
}

type CriticalOutput struct {
	Body struct {
		Events      []*EventDTO      `json:"events"`
		Count       int              `json:"count"`
		AlertLevel  audit.AlertLevel `json:"alertLevel"`
		WindowHours int              `json:"windowHours"`
	}
}

type AuditHealthOutput struct {
	Body struct {
		Status      string           `json:"status"`
		EventsToday int64            `json:"eventsToday"`
		AlertLevel  audit.AlertLevel `json:"alertLevel"`
		CheckedAt   time.Time        `json:"checkedAt"`
	}
}

// RegisterStatsRoutes mounts the statistics, critical-window and audit
// health endpoints.
func RegisterStatsRoutes(api huma.API, stats AuditStats) {
	huma.Register(api, huma.Operation{
		OperationID: "audit-statistics",
		Method:      http.MethodGet,
		Path:        "/audit/statistics",
		Summary:     "Per-day event statistics",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *StatisticsInput) (*StatisticsOutput, error) {
		days, err := stats.StatisticsByDay(ctx, input.DaysBack)
		if err != nil {
			return nil, mapServiceError(err)
		}

		out := &StatisticsOutput{}
		out.Body.DaysBack = input.DaysBack
		out.Body.Days = make([]*DailyStatsDTO, len(days))
		for i, d := range days {
			out.Body.Days[i] = &DailyStatsDTO{Date: d.Date, Total: d.Total, ByLevel: d.ByLevel}
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "audit-critical",
		Method:      http.MethodGet,
		Path:        "/audit/critical",
		Summary:     "Recent critical events with alert classification",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *CriticalInput) (*CriticalOutput, error) {
		report, err := stats.RecentCritical(ctx, input.WindowHours)
		if err != nil {
			return nil, mapServiceError(err)
		}

		out := &CriticalOutput{}
		out.Body.Events = toEventDTOs(report.Events)
		out.Body.Count = report.Count
		out.Body.AlertLevel = report.AlertLevel
		out.Body.WindowHours = report.WindowHours
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "audit-health",
		Method:      http.MethodGet,
		Path:        "/audit/health",
		Summary:     "Audit subsystem health",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, _ *struct{}) (*AuditHealthOutput, error) {
		out := &AuditHealthOutput{}
		out.Body.Status = "ok"
		out.Body.CheckedAt = time.Now()

		count, err := stats.EventsToday(ctx)
		if err != nil {
			out.Body.Status = "degraded"
			return out, nil
		}
		out.Body.EventsToday = count

		report, err := stats.RecentCritical(ctx, 24)
		if err != nil {
			out.Body.Status = "degraded"
			return out, nil
		}
		out.Body.AlertLevel = report.AlertLevel
		return out, nil
	})
}
