package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/parkwise/parkd/internal/api/v1"
	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
)

func TestAuditStatistics(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		stats := &mockAuditStats{
			statisticsByDayFunc: func(_ context.Context, daysBack int) ([]*domain.DailyEventStats, error) {
				assert.Equal(t, 30, daysBack)
				return []*domain.DailyEventStats{
					{Date: "2026-08-29", Total: 12, ByLevel: map[domain.Level]int64{domain.LevelInfo: 10, domain.LevelError: 2}},
					{Date: "2026-08-30", Total: 3, ByLevel: map[domain.Level]int64{domain.LevelInfo: 3}},
				}, nil
			},
		}
		v1.RegisterStatsRoutes(api, stats)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/statistics?daysBack=30")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			DaysBack int `json:"daysBack"`
			Days     []struct {
				Date    string           `json:"date"`
				Total   int64            `json:"total"`
				ByLevel map[string]int64 `json:"byLevel"`
			} `json:"days"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 30, body.DaysBack)
		require.Len(t, body.Days, 2)
		assert.Equal(t, "2026-08-29", body.Days[0].Date)
		assert.Equal(t, int64(2), body.Days[0].ByLevel["error"])
	})

	t.Run("window_above_limit_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterStatsRoutes(api, &mockAuditStats{})

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/statistics?daysBack=91")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestAuditCritical(t *testing.T) {
	t.Parallel()

	t.Run("high_alert_window", func(t *testing.T) {
		t.Parallel()

		events := make([]*domain.Event, 60)
		for i := range events {
			events[i] = fixtureEvent(int64(100-i), domain.LevelError)
		}

		_, api := humatest.New(t)
		stats := &mockAuditStats{
			recentCriticalFunc: func(_ context.Context, windowHours int) (*audit.CriticalReport, error) {
				assert.Equal(t, 24, windowHours)
				return &audit.CriticalReport{
					Events:      events,
					Count:       60,
					AlertLevel:  audit.AlertLevelHigh,
					WindowHours: 24,
				}, nil
			},
		}
		v1.RegisterStatsRoutes(api, stats)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/critical")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Count       int    `json:"count"`
			AlertLevel  string `json:"alertLevel"`
			WindowHours int    `json:"windowHours"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 60, body.Count)
		assert.Equal(t, "HIGH", body.AlertLevel)
		assert.Equal(t, 24, body.WindowHours)
	})
}

func TestAuditHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		stats := &mockAuditStats{
			eventsTodayFunc: func(context.Context) (int64, error) { return 57, nil },
			recentCriticalFunc: func(context.Context, int) (*audit.CriticalReport, error) {
				return &audit.CriticalReport{AlertLevel: audit.AlertLevelLow, WindowHours: 24}, nil
			},
		}
		v1.RegisterStatsRoutes(api, stats)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/health")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Status      string `json:"status"`
			EventsToday int64  `json:"eventsToday"`
			AlertLevel  string `json:"alertLevel"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, int64(57), body.EventsToday)
		assert.Equal(t, "LOW", body.AlertLevel)
	})

	t.Run("store_trouble_degrades_instead_of_failing", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		stats := &mockAuditStats{
			eventsTodayFunc: func(context.Context) (int64, error) { return 0, audit.ErrQueryFailed },
		}
		v1.RegisterStatsRoutes(api, stats)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/health")
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "degraded", body.Status)
	})
}
