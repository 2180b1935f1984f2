package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
)

// FromCharts lays every chart out as a table. Timelines become a day column followed by
// one column per series.
func FromCharts(title string, charts []analytics.Chart, createdAt time.Time) *Document {
	doc := &Document{
		Title:     title,
		CreatedAt: createdAt,
		Tables:    make([]Table, 0, len(charts)),
		Style:     DefaultStyle(),
	}

	for _, chart := range charts {
		switch chart.Type {
		case analytics.ReportTypeCounters:
			doc.Tables = append(doc.Tables, counterTable(chart))
		case analytics.ReportTypeTable:
			doc.Tables = append(doc.Tables, tableTable(chart))
		case analytics.ReportTypeTimeline:
			doc.Tables = append(doc.Tables, timelineTable(chart))
		}
	}
	return doc
}

func counterTable(chart analytics.Chart) Table {
	table := Table{Title: chart.Title, Headers: []string{"label", "value"}}
	for _, marker := range chart.Counters {
		table.Rows = append(table.Rows, []interface{}{marker.Label, marker.Value})
	}
	return table
}

func tableTable(chart analytics.Chart) Table {
	table := Table{Title: chart.Title}
	if chart.Table != nil {
		table.Headers = chart.Table.Header
		table.Rows = chart.Table.Values
	}
	return table
}

func timelineTable(chart analytics.Chart) Table {
	table := Table{Title: chart.Title, Headers: []string{"day"}}

	values := map[time.Time][]interface{}{}
	for i, series := range chart.Series {
		table.Headers = append(table.Headers, series.Name)
		for _, point := range series.Values {
			row, ok := values[point.X]
			if !ok {
				row = make([]interface{}, len(chart.Series))
				values[point.X] = row
			}
			row[i] = point.Y
		}
	}

	days := make([]time.Time, 0, len(values))
	for day := range values {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		row := append([]interface{}{day.Format(analytics.DayLayout)}, values[day]...)
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
