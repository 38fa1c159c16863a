package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"docuextract/internal/memo"
)

// exportDOCX expresses the memo as a word-processor document: centered
// shop heading, a two-column metadata table for number/date, the product
// table with a bold header row, right-aligned totals, and a two-column
// footer table.
func (e *Exporter) exportDOCX(m *memo.CashMemo) (*File, error) {
	w := docx.New().WithDefaultTheme()

	shopName := m.Shop.Name
	if shopName == "" {
		shopName = "Shop Name"
	}
	heading := w.AddParagraph().Justification("center")
	heading.AddText(shopName).Size("32").Bold()

	tagline := w.AddParagraph().Justification("center")
	tagline.AddText(m.Shop.Tagline).Size("20")

	address := w.AddParagraph().Justification("center")
	address.AddText("Address: " + m.Shop.Address).Size("20")

	w.AddParagraph()

	meta := w.AddTable(1, 2, tableWidthTwips, nil)
	meta.TableRows[0].TableCells[0].AddParagraph().AddText("Cash Memo No: " + m.Number)
	meta.TableRows[0].TableCells[1].AddParagraph().AddText("Date: " + m.Date)

	w.AddParagraph()
	w.AddParagraph().AddText("Customer: " + m.Customer.Name)
	w.AddParagraph().AddText("Address: " + m.Customer.Address)
	w.AddParagraph()

	headers := []string{"Sl No", "Description", "Size", "Quantity", "Rate", "Amount"}
	products := w.AddTable(len(m.Products)+1, len(headers), tableWidthTwips, nil)
	for i, h := range headers {
		products.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	for i, p := range m.Products {
		cells := products.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(p.SlNo.String())
		cells[1].AddParagraph().AddText(p.Description)
		cells[2].AddParagraph().AddText(orDash(p.Size))
		cells[3].AddParagraph().AddText(cellText(p.Quantity.Float()))
		cells[4].AddParagraph().AddText(p.Rate.Fixed2())
		cells[5].AddParagraph().AddText(p.Amount.Fixed2())
	}

	w.AddParagraph()
	w.AddParagraph().Justification("right").AddText("Total: " + m.Totals.Total.Fixed2())
	w.AddParagraph().Justification("right").AddText("Advance: " + m.Totals.Advance.Fixed2())
	balance := w.AddParagraph().Justification("right")
	balance.AddText("Balance: " + m.Totals.Balance.Fixed2()).Bold()

	w.AddParagraph()
	w.AddParagraph().AddText("In Words: " + m.InWords)
	w.AddParagraph()

	footer := w.AddTable(1, 2, tableWidthTwips, nil)
	footer.TableRows[0].TableCells[0].AddParagraph().AddText("Note: " + m.Footer.Note)
	footer.TableRows[0].TableCells[1].AddParagraph().AddText("Received By: " + m.Footer.ReceivedBy)

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx write: %w", err)
	}

	return &File{
		Name:        fileName(m, "docx"),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        buf.Bytes(),
	}, nil
}

// tableWidthTwips spans the printable width of an A4 page.
const tableWidthTwips = 9000
