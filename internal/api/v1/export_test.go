package v1_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/parkwise/parkd/internal/api/v1"
	"github.com/parkwise/parkd/internal/audit/export"
	"github.com/parkwise/parkd/internal/domain"
)

type mockExporter struct {
	exportFunc func(ctx context.Context, format string, f domain.EventFilter, maxRecords int) (*export.File, error)
}

func (m *mockExporter) Export(ctx context.Context, format string, f domain.EventFilter, maxRecords int) (*export.File, error) {
	return m.exportFunc(ctx, format, f, maxRecords)
}

func TestExportAuditEvents(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		exporter := &mockExporter{
			exportFunc: func(_ context.Context, format string, f domain.EventFilter, maxRecords int) (*export.File, error) {
				assert.Equal(t, "csv", format)
				assert.Equal(t, domain.LevelError, f.Level)
				assert.Equal(t, 100, maxRecords)
				return &export.File{
					Data:        []byte("id,createdAt\n"),
					Filename:    "audit-events-20260830-120000.csv",
					ContentType: "text/csv",
				}, nil
			},
		}
		v1.RegisterExportRoutes(api, exporter)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/export?format=csv&level=error&maxRecords=100")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="audit-events-20260830-120000.csv"`, resp.Header().Get("Content-Disposition"))
		assert.Equal(t, "id,createdAt\n", resp.Body.String())
	})

	t.Run("missing_format_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterExportRoutes(api, &mockExporter{})

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/export")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("empty_result_maps_to_400", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		exporter := &mockExporter{
			exportFunc: func(context.Context, string, domain.EventFilter, int) (*export.File, error) {
				return nil, fmt.Errorf("%w: no events match the export filter", domain.ErrValidation)
			},
		}
		v1.RegisterExportRoutes(api, exporter)

		resp := api.GetCtx(adminCtx(uuid.New()), "/audit/export?format=json")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
