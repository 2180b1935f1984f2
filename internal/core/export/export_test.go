package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testCharts() []analytics.Chart {
	jan := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return []analytics.Chart{
		{
			Type:     analytics.ReportTypeCounters,
			Title:    "Accounts",
			Counters: []analytics.CounterMarker{{Label: "active", Value: 3}, {Label: "closed", Value: 1}},
		},
		{
			Type:  analytics.ReportTypeTable,
			Title: "Invoices",
			Table: &analytics.TableData{
				Name:   "invoices",
				Header: []string{"state", "total"},
				Values: [][]interface{}{{"paid", 10.5}, {"open", nil}},
			},
		},
		{
			Type:  analytics.ReportTypeTimeline,
			Title: "Payments",
			Series: []analytics.NamedSeries{
				{Name: "amount: BRL", Values: []analytics.XY{{X: jan(2), Y: 4}}},
				{Name: "amount: USD", Values: []analytics.XY{{X: jan(1), Y: 1}, {X: jan(2), Y: 2.25}}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":      FormatJSON,
		"json":  FormatJSON,
		"CSV":   FormatCSV,
		"xlsx":  FormatExcel,
		"excel": FormatExcel,
		" pdf ": FormatPDF,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestFromCharts(t *testing.T) {
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	doc := FromCharts("Dashboard", testCharts(), created)

	assert.Equal(t, "Dashboard", doc.Title)
	assert.Equal(t, created, doc.CreatedAt)
	require.Len(t, doc.Tables, 3)

	assert.Equal(t, Table{
		Title:   "Accounts",
		Headers: []string{"label", "value"},
		Rows:    [][]interface{}{{"active", 3.0}, {"closed", 1.0}},
	}, doc.Tables[0])

	assert.Equal(t, []string{"state", "total"}, doc.Tables[1].Headers)
	assert.Len(t, doc.Tables[1].Rows, 2)

	timeline := doc.Tables[2]
	assert.Equal(t, []string{"day", "amount: BRL", "amount: USD"}, timeline.Headers)
	assert.Equal(t, [][]interface{}{
		{"2024-01-01", nil, 1.0},
		{"2024-01-02", 4.0, 2.25},
	}, timeline.Rows)
}

func TestFromChartsEmptyTable(t *testing.T) {
	doc := FromCharts("", []analytics.Chart{{Type: analytics.ReportTypeTable, Title: "Empty"}}, time.Time{})

	require.Len(t, doc.Tables, 1)
	assert.Empty(t, doc.Tables[0].Headers)
	assert.Empty(t, doc.Tables[0].Rows)
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	doc := FromCharts("Dashboard", testCharts()[1:], time.Time{})
	require.NoError(t, NewCSVExporter().Export(doc, &buf))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Invoices"},
		{"state", "total"},
		{"paid", "10.5"},
		{"open", ""},
		{"Payments"},
		{"day", "amount: BRL", "amount: USD"},
		{"2024-01-01", "", "1"},
		{"2024-01-02", "4", "2.25"},
	}, records)
}

func TestExcelExporter(t *testing.T) {
	var buf bytes.Buffer
	doc := FromCharts("Dashboard", testCharts(), time.Now())
	require.NoError(t, NewExcelExporter().Export(doc, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Accounts", "Invoices", "Payments"}, f.GetSheetList())

	title, err := f.GetCellValue("Payments", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Payments", title)

	header, err := f.GetCellValue("Payments", "C3")
	require.NoError(t, err)
	assert.Equal(t, "amount: USD", header)

	value, err := f.GetCellValue("Payments", "C5")
	require.NoError(t, err)
	assert.Equal(t, "2.25", value)
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "Sales_Q1", uniqueSheetName("Sales/Q1", 0, used))
	assert.Equal(t, "sales_q1 (2)", uniqueSheetName("sales/q1", 1, used))
	assert.Equal(t, "Sheet3", uniqueSheetName("  ", 2, used))

	long := uniqueSheetName("a very long chart title that overflows", 3, used)
	assert.Len(t, long, maxSheetNameLength)
}

func TestPDFExporter(t *testing.T) {
	var buf bytes.Buffer
	doc := FromCharts("Dashboard", testCharts(), time.Now())
	require.NoError(t, NewPDFExporter().Export(doc, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFExporterManyRows(t *testing.T) {
	table := Table{Title: "Long", Headers: []string{"n"}}
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []interface{}{float64(i)})
	}
	doc := &Document{Title: "Long", Tables: []Table{table}, Style: DefaultStyle()}

	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter().Export(doc, &buf))
	assert.NotEmpty(t, buf.Bytes())
}

func TestServiceExport(t *testing.T) {
	s := NewService()
	doc := FromCharts("Dashboard", testCharts(), time.Now())

	body, contentType, err := s.Export(doc, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(body), "Accounts")

	_, contentType, err = s.Export(doc, FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)

	_, _, err = s.Export(&Document{}, Format("docx"))
	assert.Error(t, err)

	assert.Equal(t, ".pdf", s.GetFileExtension(FormatPDF))
	assert.Equal(t, ".bin", s.GetFileExtension(Format("docx")))
}

func TestJSONExporter(t *testing.T) {
	body, contentType, err := NewService().Export(FromCharts("Dashboard", testCharts()[:1], time.Now()), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `[{"title":"Accounts","headers":["label","value"],"rows":[["active",3],["closed",1]]}]`, string(body))
}
