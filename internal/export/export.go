// Package export turns a parsed cash memo into downloadable documents.
// Each serializer is an independent projection of the same record; the
// dispatcher here only routes and names the result.
package export

import (
	"errors"
	"regexp"
	"strings"

	"docuextract/internal/memo"
)

// Format identifies one of the supported output formats.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatPDF    Format = "pdf"
	FormatDOCX   Format = "docx"
	FormatXML    Format = "xml"
	FormatGSheet Format = "gsheet"
)

// ErrNoMemo is returned when there is no record to serialize. Every
// serializer refuses a nil record the same way instead of failing later.
var ErrNoMemo = errors.New("no cash memo to export")

// File is a named, downloadable byte stream. Notice, when set, is a hint
// the user should see after the download (currently only the Google Sheets
// flow uses it).
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Notice      string
}

// ParseFormat maps a format identifier to a Format, falling back to XLSX
// for anything unrecognized.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV
	case FormatJSON:
		return FormatJSON
	case FormatPDF:
		return FormatPDF
	case FormatDOCX, "word":
		return FormatDOCX
	case FormatXML:
		return FormatXML
	case FormatGSheet:
		return FormatGSheet
	default:
		return FormatXLSX
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatGSheet {
		return "csv"
	}
	return string(f)
}

// Exporter serializes cash memos. It is safe for concurrent use; the only
// state is configuration.
type Exporter struct {
	// banglaFontPath points at a Bangla-capable TTF for the PDF
	// serializer. When empty, Bangla runs fall back to the core font.
	banglaFontPath string
}

// NewExporter creates an Exporter. banglaFontPath may be empty.
func NewExporter(banglaFontPath string) *Exporter {
	return &Exporter{banglaFontPath: banglaFontPath}
}

// Export serializes the memo into the requested format. A nil memo yields
// ErrNoMemo regardless of format.
func (e *Exporter) Export(m *memo.CashMemo, format Format) (*File, error) {
	if m == nil {
		return nil, ErrNoMemo
	}

	switch format {
	case FormatCSV:
		return e.exportCSV(m)
	case FormatJSON:
		return e.exportJSON(m)
	case FormatPDF:
		return e.exportPDF(m)
	case FormatDOCX:
		return e.exportDOCX(m)
	case FormatXML:
		return e.exportXML(m)
	case FormatGSheet:
		f, err := e.exportCSV(m)
		if err != nil {
			return nil, err
		}
		f.Notice = "CSV exported. Upload this CSV to Google Sheets manually or via the Sheets importer."
		return f, nil
	default:
		return e.exportXLSX(m)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// fileName builds the download name cash_memo_<number-or-"data">.<ext>,
// with the memo number scrubbed of characters that are unsafe in
// filenames.
func fileName(m *memo.CashMemo, ext string) string {
	base := strings.TrimSpace(m.Number)
	base = unsafeFilenameChars.ReplaceAllString(base, "")
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "data"
	}
	return "cash_memo_" + base + "." + ext
}
