package export

import (
	"encoding/json"
	"time"
)

// jsonDocument wraps the records with run metadata so a downloaded file is
// self-describing without its HTTP headers.
type jsonDocument struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	RecordCount int         `json:"recordCount"`
	Format      string      `json:"format"`
	Records     []FlatEvent `json:"records"`
}

func encodeJSON(events []FlatEvent, generatedAt time.Time) ([]byte, error) {
	doc := jsonDocument{
		GeneratedAt: generatedAt.UTC(),
		RecordCount: len(events),
		Format:      string(FormatJSON),
		Records:     events,
	}
	if doc.Records == nil {
		doc.Records = []FlatEvent{}
	}
	return json.MarshalIndent(doc, "", "  ")
}
