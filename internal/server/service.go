package server

import (
	"context"
	"errors"
	"log/slog"

	"docuextract/internal/export"
	"docuextract/internal/extraction"
	"docuextract/internal/memo"
)

// ErrNoRecord means the model's text response held no parseable cash memo,
// so there is nothing to export.
var ErrNoRecord = errors.New("response contains no cash memo record")

// Service wires the extraction adapter to the export dispatcher. It holds
// no state between requests; the current record lives only in the client
// page.
type Service struct {
	extractor extraction.Extractor
	exporter  *export.Exporter
}

// NewService creates a new Service.
func NewService(extractor extraction.Extractor, exporter *export.Exporter) *Service {
	return &Service{
		extractor: extractor,
		exporter:  exporter,
	}
}

// ExtractText sends the uploaded image to the model and returns its raw
// text response. The response is not parsed here; the client sees exactly
// what the model produced.
func (s *Service) ExtractText(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	raw, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to extract memo",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return "", err
	}

	slog.Info("Extracted memo", "filename", filename, "response_bytes", len(raw))
	return raw, nil
}

// ExportMemo parses the raw model text and serializes the record into the
// requested format. Unknown format identifiers fall back to the workbook
// export.
func (s *Service) ExportMemo(raw string, format string) (*export.File, error) {
	m, ok := memo.Extract(raw)
	if !ok {
		return nil, ErrNoRecord
	}
	return s.exporter.Export(m, export.ParseFormat(format))
}
