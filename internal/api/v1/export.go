package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type ExportEventsInput struct {
	EventFilterParams
	Format     string `query:"format" enum:"csv,json,excel" required:"true" doc:"Export format"`
	MaxRecords int    `query:"maxRecords" minimum:"1" doc:"Record cap; defaults to 10000, hard ceiling 50000"`
}

// ExportEventsOutput streams the rendered file. The body bypasses huma's
// JSON serialization.
type ExportEventsOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// RegisterExportRoutes mounts the audit export endpoint.
func RegisterExportRoutes(api huma.API, exporter AuditExporter) {
	huma.Register(api, huma.Operation{
		OperationID: "export-audit-events",
		Method:      http.MethodGet,
		Path:        "/audit/export",
		Summary:     "Export audit events as a file",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ExportEventsInput) (*ExportEventsOutput, error) {
		file, err := exporter.Export(ctx, input.Format, input.toFilter(), input.MaxRecords)
		if err != nil {
			return nil, mapServiceError(err)
		}

		return &ExportEventsOutput{
			ContentType:        file.ContentType,
			ContentDisposition: fmt.Sprintf("attachment; filename=%q", file.Filename),
			Body:               file.Data,
		}, nil
	})
}
