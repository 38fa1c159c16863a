package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"docuextract/internal/memo"
)

// banglaFontName is the registered family name for the configured Bangla
// TTF (SolaimanLipi in the shipped assets).
const banglaFontName = "SolaimanLipi"

// containsBangla reports whether any rune falls in the Bengali Unicode
// block. Bangla and Latin runs cannot share one font resource in this
// renderer, so fields are tested individually.
func containsBangla(s string) bool {
	for _, r := range s {
		if r >= 0x0980 && r <= 0x09FF {
			return true
		}
	}
	return false
}

// exportPDF lays the memo out on a single A4 page in millimeter
// coordinates: centered shop header, memo number/date pair, customer
// block, bordered product table with a colored header row, right-aligned
// totals, and footer notes.
func (e *Exporter) exportPDF(m *memo.CashMemo) (*File, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	banglaLoaded := false
	if e.banglaFontPath != "" {
		pdf.AddUTF8Font(banglaFontName, "", e.banglaFontPath)
		if pdf.Err() {
			// Fall back to the core font rather than failing the
			// whole export over a missing font file.
			pdf.ClearError()
		} else {
			banglaLoaded = true
		}
	}

	// Per-field font switch: Bangla-capable face for Bengali text,
	// Helvetica otherwise. UTF-8 fonts are registered per style, so the
	// Bangla face always uses the regular style.
	setFont := func(text, style string, size float64) {
		if banglaLoaded && containsBangla(text) {
			pdf.SetFont(banglaFontName, "", size)
			return
		}
		pdf.SetFont("Helvetica", style, size)
	}

	textAt := func(x, y float64, text string) {
		pdf.SetXY(x, y)
		pdf.CellFormat(0, 6, text, "", 0, "L", false, 0, "")
	}
	centeredAt := func(y float64, text string) {
		pdf.SetXY(14, y)
		pdf.CellFormat(182, 6, text, "", 0, "C", false, 0, "")
	}

	pdf.AddPage()

	// Header block.
	shopName := m.Shop.Name
	if shopName == "" {
		shopName = "Shop Name"
	}
	setFont(shopName, "B", 16)
	centeredAt(17, shopName)

	if m.Shop.Tagline != "" {
		setFont(m.Shop.Tagline, "", 10)
		centeredAt(23, m.Shop.Tagline)
	}
	if m.Shop.Address != "" {
		addr := "Address: " + m.Shop.Address
		setFont(addr, "", 10)
		centeredAt(29, addr)
	}

	// Memo number left, date right.
	pdf.SetFont("Helvetica", "B", 10)
	textAt(14, 47, "Cash Memo No: "+m.Number)
	textAt(150, 47, "Date: "+m.Date)

	// Customer block.
	cust := "Customer: " + m.Customer.Name
	setFont(cust, "", 10)
	textAt(14, 55, cust)
	if m.Customer.Address != "" {
		addr := "Address: " + m.Customer.Address
		setFont(addr, "", 10)
		textAt(14, 61, addr)
	}

	y := 75.0
	if len(m.Products) > 0 {
		y = e.productTable(pdf, m, y, setFont) + 10
	}

	// Totals, right-aligned under the table.
	pdf.SetFont("Helvetica", "", 10)
	textAt(150, y, "Total: "+m.Totals.Total.Fixed2())
	y += 6
	textAt(150, y, "Advance: "+m.Totals.Advance.Fixed2())
	y += 6
	textAt(150, y, "Balance: "+m.Totals.Balance.Fixed2())
	y += 10

	// Footer notes.
	if m.Footer.Note != "" {
		note := "Note: " + m.Footer.Note
		setFont(note, "", 10)
		textAt(14, y, note)
	}
	if m.Footer.ReceivedBy != "" {
		rec := "Received By: " + m.Footer.ReceivedBy
		setFont(rec, "", 10)
		textAt(150, y, rec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}

	return &File{
		Name:        fileName(m, "pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Sl No", 15},
	{"Description", 67},
	{"Size", 25},
	{"Quantity", 25},
	{"Rate", 25},
	{"Amount", 25},
}

// productTable draws the bordered product grid starting at y and returns
// the y coordinate below the last row.
func (e *Exporter) productTable(pdf *gofpdf.Fpdf, m *memo.CashMemo, y float64, setFont func(text, style string, size float64)) float64 {
	const rowHeight = 8.0

	// Header row: DodgerBlue fill, white bold text.
	pdf.SetXY(14, y)
	pdf.SetFillColor(30, 144, 255)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
	}
	y += rowHeight

	pdf.SetTextColor(0, 0, 0)
	for i, p := range m.Products {
		cells := []string{
			p.SlNo.String(),
			p.Description,
			orDash(p.Size),
			strconv.FormatFloat(p.Quantity.Float(), 'f', -1, 64),
			p.Rate.Fixed2(),
			p.Amount.Fixed2(),
		}

		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		pdf.SetXY(14, y)
		for j, col := range pdfColumns {
			align := "R"
			if j <= 2 {
				align = "L"
			}
			setFont(cells[j], "", 10)
			pdf.CellFormat(col.width, rowHeight, cells[j], "1", 0, align, fill, 0, "")
		}
		y += rowHeight
	}
	return y
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
