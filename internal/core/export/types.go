package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format represents the export file format
type Format string

const (
	FormatJSON  Format = "json"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
)

// ParseFormat parses a format name. An empty name is JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", name)
	}
}

// Exporter is the interface for all export formats
type Exporter interface {
	Export(doc *Document, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// Document is a titled list of tables, one per exported chart
type Document struct {
	Title     string
	CreatedAt time.Time
	Tables    []Table
	Style     Style
}

// Table is one block of the document
type Table struct {
	Title   string          `json:"title"`
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// Style defines styling options for exports
type Style struct {
	// PDF specific
	Orientation string // "portrait" or "landscape"
	PageSize    string // "A4", "Letter", etc.

	// Common styling
	HeaderBgColor string // Hex color
	AlternateRows bool
	RowBgColor1   string // Hex color for odd rows
	RowBgColor2   string // Hex color for even rows
	FontFamily    string
	FontSize      float64

	// Excel specific
	FreezeHeader bool
	AutoFilter   bool
}

// DefaultStyle returns default export styling
func DefaultStyle() Style {
	return Style{
		Orientation:   "landscape",
		PageSize:      "A4",
		HeaderBgColor: "#4472C4",
		AlternateRows: true,
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		FontFamily:    "Arial",
		FontSize:      9,
		FreezeHeader:  true,
		AutoFilter:    true,
	}
}
