package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter writes one section per table using gofpdf
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export exports the document to PDF format
func (p *PDFExporter) Export(doc *Document, writer io.Writer) error {
	orientation := "P"
	if doc.Style.Orientation == "landscape" {
		orientation = "L"
	}
	pageSize := doc.Style.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	fontFamily := doc.Style.FontFamily
	if fontFamily == "" {
		fontFamily = "Arial"
	}

	pdf := gofpdf.New(orientation, "mm", pageSize, "")
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont(fontFamily, "B", 16)
		pdf.Cell(0, 10, doc.Title)
		pdf.Ln(12)
	}
	if !doc.CreatedAt.IsZero() {
		pdf.SetFont(fontFamily, "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", doc.CreatedAt.UTC().Format("2006-01-02 15:04:05")))
		pdf.Ln(10)
	}

	for _, table := range doc.Tables {
		p.writeTable(pdf, fontFamily, table, doc.Style)
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) writeTable(pdf *gofpdf.Fpdf, fontFamily string, table Table, style Style) {
	pageWidth, pageHeight := pdf.GetPageSize()
	leftMargin, _, rightMargin, bottomMargin := pdf.GetMargins()
	bottom := pageHeight - bottomMargin - 10

	if pdf.GetY() > bottom-20 {
		pdf.AddPage()
	}

	if table.Title != "" {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.Cell(0, 8, table.Title)
		pdf.Ln(9)
	}

	if len(table.Headers) == 0 || len(table.Rows) == 0 {
		pdf.SetFont(fontFamily, "I", style.FontSize)
		pdf.Cell(0, 6, "No data")
		pdf.Ln(10)
		if len(table.Headers) == 0 {
			return
		}
	}

	colWidth := (pageWidth - leftMargin - rightMargin) / float64(len(table.Headers))

	drawHeader := func() {
		pdf.SetFont(fontFamily, "B", style.FontSize)
		if style.HeaderBgColor != "" {
			r, g, b := hexToRGB(style.HeaderBgColor)
			pdf.SetFillColor(r, g, b)
			pdf.SetTextColor(255, 255, 255)
		}
		for _, header := range table.Headers {
			pdf.CellFormat(colWidth, 7, header, "1", 0, "C", style.HeaderBgColor != "", 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(fontFamily, "", style.FontSize)
	}

	if len(table.Rows) > 0 {
		drawHeader()
	}

	for rowIdx, row := range table.Rows {
		if style.AlternateRows {
			color := style.RowBgColor1
			if rowIdx%2 == 1 {
				color = style.RowBgColor2
			}
			r, g, b := hexToRGB(color)
			pdf.SetFillColor(r, g, b)
		}

		for colIdx := range table.Headers {
			var value interface{}
			if colIdx < len(row) {
				value = row[colIdx]
			}
			align := "L"
			if _, numeric := value.(float64); numeric {
				align = "R"
			}
			pdf.CellFormat(colWidth, 6, cellText(value), "1", 0, align, style.AlternateRows, 0, "")
		}
		pdf.Ln(-1)

		if pdf.GetY() > bottom && rowIdx < len(table.Rows)-1 {
			pdf.AddPage()
			drawHeader()
		}
	}
	pdf.Ln(6)
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// hexToRGB converts hex color to RGB values, white when invalid
func hexToRGB(hex string) (int, int, int) {
	hex = stripHashFromColor(hex)
	if len(hex) != 6 {
		return 255, 255, 255
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
