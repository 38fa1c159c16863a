package export

import (
	"encoding/json"
	"fmt"

	"docuextract/internal/memo"
)

// exportJSON dumps the record exactly as parsed, pretty-printed with a
// two-space indent. Field names and ordering follow the struct, so a
// re-import is field-equivalent to the source record.
func (e *Exporter) exportJSON(m *memo.CashMemo) (*File, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}

	return &File{
		Name:        fileName(m, "json"),
		ContentType: "application/json; charset=utf-8",
		Data:        data,
	}, nil
}
