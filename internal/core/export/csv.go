package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVExporter writes one block per table: the title, the header, the rows, then a blank line
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(doc *Document, writer io.Writer) error {
	w := csv.NewWriter(writer)

	for i, table := range doc.Tables {
		if i > 0 {
			if err := w.Write([]string{}); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
		}
		if table.Title != "" {
			if err := w.Write([]string{table.Title}); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
		}
		if err := w.Write(table.Headers); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		for _, row := range table.Rows {
			record := make([]string, len(row))
			for j, value := range row {
				record[j] = cellText(value)
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

func (e *CSVExporter) GetContentType() string {
	return "text/csv"
}

func (e *CSVExporter) GetFileExtension() string {
	return ".csv"
}
