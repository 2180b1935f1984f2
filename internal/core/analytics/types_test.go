package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartJSON(t *testing.T) {
	tests := []struct {
		name  string
		chart Chart
		want  string
	}{
		{
			name: "counters",
			chart: Chart{
				Type:     ReportTypeCounters,
				Title:    "Accounts",
				Counters: []CounterMarker{{Label: "USD", Value: 10}},
			},
			want: `{"type":"COUNTERS","title":"Accounts","data":[{"label":"USD","value":10}]}`,
		},
		{
			name:  "empty counters",
			chart: Chart{Type: ReportTypeCounters, Title: "Accounts"},
			want:  `{"type":"COUNTERS","title":"Accounts","data":[]}`,
		},
		{
			name: "table",
			chart: Chart{
				Type:  ReportTypeTable,
				Title: "Invoices",
				Table: &TableData{Name: "report_invoices", Header: []string{"id", "amount"}, Values: [][]interface{}{{"i-1", 2.5}}},
			},
			want: `{"type":"TABLE","title":"Invoices","data":[{"name":"report_invoices","header":["id","amount"],"values":[["i-1",2.5]]}]}`,
		},
		{
			name:  "empty table",
			chart: Chart{Type: ReportTypeTable, Title: "Invoices"},
			want:  `{"type":"TABLE","title":"Invoices","data":[]}`,
		},
		{
			name: "timeline",
			chart: Chart{
				Type:   ReportTypeTimeline,
				Title:  "Payments",
				Series: []NamedSeries{{Name: "count: USD", Values: []XY{{X: jan(1), Y: 3}}}},
			},
			want: `{"type":"TIMELINE","title":"Payments","data":[{"name":"count: USD","values":[{"x":"2013-01-01","y":3}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.chart)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestReportTypeValid(t *testing.T) {
	assert.True(t, ReportTypeCounters.Valid())
	assert.True(t, ReportTypeTimeline.Valid())
	assert.True(t, ReportTypeTable.Valid())
	assert.False(t, ReportType("PIE").Valid())
}
