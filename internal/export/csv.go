package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"docuextract/internal/memo"
)

// exportCSV writes the same rows as the workbook export, comma-delimited.
// Quoting is whatever encoding/csv does for embedded delimiters; nothing
// extra.
func (e *Exporter) exportCSV(m *memo.CashMemo) (*File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, row := range memoRows(m) {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellText(v)
		}
		if len(record) == 0 {
			record = []string{""}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	return &File{
		Name:        fileName(m, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
