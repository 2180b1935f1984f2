package analytics

import (
	"encoding/json"
	"time"
)

// ReportType selects how the rows of a report are turned into a chart
type ReportType string

const (
	ReportTypeCounters ReportType = "COUNTERS"
	ReportTypeTimeline ReportType = "TIMELINE"
	ReportTypeTable    ReportType = "TABLE"
)

// Valid reports whether t is one of the known report types
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeCounters, ReportTypeTimeline, ReportTypeTable:
		return true
	}
	return false
}

// RefreshFrequency is how often a report's refresh procedure runs
type RefreshFrequency string

const (
	RefreshHourly RefreshFrequency = "HOURLY"
	RefreshDaily  RefreshFrequency = "DAILY"
)

// ReportConfig is the read-only view of a report configuration
type ReportConfig struct {
	ReportName       string
	PrettyName       string
	SourceTable      string
	Type             ReportType
	RefreshProcedure string
	RefreshFrequency RefreshFrequency
	RefreshHourOfDay *int
	TenantRecordID   int64
}

// XY is one point of a daily time series
type XY struct {
	X time.Time
	Y float64
}

func (p XY) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X string  `json:"x"`
		Y float64 `json:"y"`
	}{
		X: p.X.Format(DayLayout),
		Y: p.Y,
	})
}

// SeriesSet maps a series name to its points
type SeriesSet map[string][]XY

// CounterMarker is one labelled scalar of a COUNTERS chart
type CounterMarker struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TableData is the payload of a TABLE chart
type TableData struct {
	Name   string          `json:"name"`
	Header []string        `json:"header"`
	Values [][]interface{} `json:"values"`
}

// NamedSeries is one series of a TIMELINE chart
type NamedSeries struct {
	Name   string `json:"name"`
	Values []XY   `json:"values"`
}

// Chart is the rendered result of one report. Exactly one payload is set, matching Type.
type Chart struct {
	Type     ReportType
	Title    string
	Counters []CounterMarker
	Table    *TableData
	Series   []NamedSeries
}

func (c Chart) MarshalJSON() ([]byte, error) {
	var data interface{}
	switch c.Type {
	case ReportTypeCounters:
		data = nonNilCounters(c.Counters)
	case ReportTypeTable:
		tables := []TableData{}
		if c.Table != nil {
			tables = append(tables, *c.Table)
		}
		data = tables
	case ReportTypeTimeline:
		if c.Series == nil {
			data = []NamedSeries{}
		} else {
			data = c.Series
		}
	}

	return json.Marshal(struct {
		Type  ReportType  `json:"type"`
		Title string      `json:"title"`
		Data  interface{} `json:"data"`
	}{
		Type:  c.Type,
		Title: c.Title,
		Data:  data,
	})
}

func nonNilCounters(markers []CounterMarker) []CounterMarker {
	if markers == nil {
		return []CounterMarker{}
	}
	return markers
}

// ResultSet is the raw output of a query: column names in select order plus one map per row
type ResultSet struct {
	Columns []string
	Rows    []map[string]interface{}
}

// DateRange is an inclusive day range
type DateRange struct {
	Start time.Time
	End   time.Time
}
