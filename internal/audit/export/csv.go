package export

import (
	"bytes"
	"encoding/csv"
)

func encodeCSV(events []FlatEvent) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns()); err != nil {
		return nil, err
	}
	for _, e := range events {
		if err := w.Write(e.Row()); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
