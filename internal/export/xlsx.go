package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"docuextract/internal/memo"
)

const sheetName = "Cash Memo"

// exportXLSX writes the memo rows into a single-sheet workbook with each
// column sized to its longest stringified cell.
func (e *Exporter) exportXLSX(m *memo.CashMemo) (*File, error) {
	rows := memoRows(m)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	widths := make(map[int]float64)
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("cell value: %w", err)
			}
			if w := float64(len(cellText(v))); w > widths[j] {
				widths[j] = w
			}
		}
	}

	for col, w := range widths {
		if w < 10 {
			w = 10
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	return &File{
		Name:        fileName(m, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
