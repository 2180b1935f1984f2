package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONExporter writes the charts as the dashboard sees them
type JSONExporter struct{}

func (e *JSONExporter) Export(doc *Document, writer io.Writer) error {
	return json.NewEncoder(writer).Encode(doc.Tables)
}

func (e *JSONExporter) GetContentType() string {
	return "application/json"
}

func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// Service picks the exporter for a format
type Service struct {
	exporters map[Format]Exporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		exporters: map[Format]Exporter{
			FormatJSON:  &JSONExporter{},
			FormatCSV:   NewCSVExporter(),
			FormatExcel: NewExcelExporter(),
			FormatPDF:   NewPDFExporter(),
		},
	}
}

// Export renders the document in the given format and returns the body with its content type
func (s *Service) Export(doc *Document, format Format) ([]byte, string, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(doc, &buf); err != nil {
		return nil, "", fmt.Errorf("%s export failed: %w", format, err)
	}
	return buf.Bytes(), exporter.GetContentType(), nil
}

// GetFileExtension returns the file extension for the given format
func (s *Service) GetFileExtension(format Format) string {
	if exporter, ok := s.exporters[format]; ok {
		return exporter.GetFileExtension()
	}
	return ".bin"
}
