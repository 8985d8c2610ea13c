package export

import (
	"fmt"
	"time"
)

// Format selects the interchange encoding for an export run.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// ParseFormat normalizes a user-supplied format string. Unknown values are
// rejected rather than defaulted so a typo never silently changes the output.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatExcel:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

func (f Format) contentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

func (f Format) extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// File is a fully rendered export ready to stream to the client.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Encode renders the flattened events in the requested format.
func Encode(format Format, events []FlatEvent, generatedAt time.Time) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = encodeCSV(events)
	case FormatJSON:
		data, err = encodeJSON(events, generatedAt)
	case FormatExcel:
		data, err = encodeExcel(events)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export.Encode: %w", err)
	}
	return &File{
		Data:        data,
		Filename:    fmt.Sprintf("audit-events-%s.%s", generatedAt.UTC().Format("20060102-150405"), format.extension()),
		ContentType: format.contentType(),
	}, nil
}
