package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// ExcelExporter writes one sheet per table using excelize
type ExcelExporter struct{}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export exports the document to Excel format
func (e *ExcelExporter) Export(doc *Document, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := e.createHeaderStyle(f, doc.Style)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	oddRowStyle, err := e.createRowStyle(f, doc.Style, doc.Style.RowBgColor1)
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}
	evenRowStyle := oddRowStyle
	if doc.Style.AlternateRows {
		if evenRowStyle, err = e.createRowStyle(f, doc.Style, doc.Style.RowBgColor2); err != nil {
			return fmt.Errorf("failed to create row style: %w", err)
		}
	}

	used := map[string]bool{}
	for i, table := range doc.Tables {
		name := uniqueSheetName(table.Title, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := e.writeTable(f, name, table, doc.Style, headerStyle, oddRowStyle, evenRowStyle); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeTable(f *excelize.File, sheet string, table Table, style Style, headerStyle, oddRowStyle, evenRowStyle int) error {
	rowIndex := 1
	if table.Title != "" {
		if err := f.SetCellValue(sheet, "A1", table.Title); err != nil {
			return err
		}
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14, Family: style.FontFamily},
		})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
			return err
		}
		rowIndex += 2
	}

	headerRow := rowIndex
	for colIndex, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	rowIndex++

	for rowIdx, row := range table.Rows {
		rowStyle := oddRowStyle
		if rowIdx%2 == 1 {
			rowStyle = evenRowStyle
		}
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, rowStyle); err != nil {
				return err
			}
		}
		rowIndex++
	}

	if len(table.Headers) == 0 {
		return nil
	}

	if style.FreezeHeader {
		err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: "A" + strconv.Itoa(headerRow+1),
			ActivePane:  "bottomLeft",
		})
		if err != nil {
			return err
		}
	}

	if style.AutoFilter {
		lastCell, err := excelize.CoordinatesToCellName(len(table.Headers), headerRow+len(table.Rows))
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sheet, "A"+strconv.Itoa(headerRow)+":"+lastCell, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

func (e *ExcelExporter) createHeaderStyle(f *excelize.File, style Style) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   style.FontSize,
			Family: style.FontFamily,
			Color:  "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHashFromColor(style.HeaderBgColor)},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (e *ExcelExporter) createRowStyle(f *excelize.File, style Style, bgColor string) (int, error) {
	rowStyle := &excelize.Style{
		Font: &excelize.Font{
			Size:   style.FontSize,
			Family: style.FontFamily,
		},
	}

	// White rows keep the default fill
	if bgColor != "" && !strings.EqualFold(bgColor, "#FFFFFF") {
		rowStyle.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHashFromColor(bgColor)},
		}
	}

	return f.NewStyle(rowStyle)
}

// uniqueSheetName turns a chart title into a valid, unused sheet name
func uniqueSheetName(title string, index int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet" + strconv.Itoa(index+1)
	}
	name = truncateRunes(name, maxSheetNameLength)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		candidate = truncateRunes(name, maxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// stripHashFromColor removes # from hex color codes
func stripHashFromColor(color string) string {
	return strings.TrimPrefix(color, "#")
}
