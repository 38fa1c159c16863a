package export

import (
	"strconv"

	"docuextract/internal/memo"
)

// memoRows flattens a memo into the section layout shared by the tabular
// formats: shop identity, memo metadata, customer block, product table,
// totals, in-words line, footer. Blank rows separate the sections. The
// product table deliberately omits the per-line discount column.
func memoRows(m *memo.CashMemo) [][]any {
	rows := [][]any{
		{"Shop Name:", m.Shop.Name},
		{"Tagline:", m.Shop.Tagline},
		{"Address:", m.Shop.Address},
		{"Phone:", m.Shop.Phone, "Cell:", m.Shop.Cell},
		{},
		{"Cash Memo No:", m.Number, "Date:", m.Date},
		{},
		{"Customer Name:", m.Customer.Name},
		{"Customer Address:", m.Customer.Address},
		{"Customer Number:", m.Customer.Number},
		{},
		{"Products:"},
		{"Sl No", "Description", "Size", "Quantity", "Rate", "Amount"},
	}

	for _, p := range m.Products {
		rows = append(rows, []any{
			p.SlNo.String(),
			p.Description,
			p.Size,
			p.Quantity.Float(),
			p.Rate.Float(),
			p.Amount.Float(),
		})
	}

	rows = append(rows,
		[]any{},
		[]any{"Total:", m.Totals.Total.Float()},
		[]any{"Advance:", m.Totals.Advance.Float()},
		[]any{"Balance:", m.Totals.Balance.Float()},
		[]any{"In Words:", m.InWords},
		[]any{},
		[]any{"Delivery:", m.Footer.Delivery},
		[]any{"Note:", m.Footer.Note},
		[]any{"Received By:", m.Footer.ReceivedBy},
	)
	return rows
}

// cellText stringifies one cell for the text-based formats and for column
// width measurement.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
