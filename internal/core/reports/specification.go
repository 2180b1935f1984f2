package reports

import (
	"strings"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
)

const (
	DayColumnName        = "day"
	TsColumnName         = "ts"
	CountColumnName      = "count"
	LabelColumnName      = "label"
	TenantRecordIDColumn = "tenant_record_id"
)

const (
	directiveSeparator = "^"
	filterDirective    = "filter"
	dimensionDirective = "dimension"
	metricDirective    = "metric"
	legendDirective    = "legend"
	pivotDirective     = "pivot"
)

// ParseError is returned for malformed report specifications, filters and buckets
type ParseError = sqlbuilder.ParseError

func specificationError(input, fragment, reason string) *ParseError {
	return &ParseError{Kind: "specification", Input: input, Fragment: fragment, Reason: reason}
}

// Specification is the parsed form of a report request such as
//
//	payments_per_day^filter:currency=USD|currency=EUR^dimension:currency(USD|EUR|-)^metric:sum(amount)
//
// Dimensions and Metrics hold the columns exactly as declared, deduplicated, in declaration order.
type Specification struct {
	ReportName string
	Dimensions []string
	Metrics    []string
	Legend     string
	Filter     sqlbuilder.Node
	Pivot      bool // dimension values lead the series names

	buckets    []*sqlbuilder.Bucket
	aggregates []*sqlbuilder.Aggregate
}

// ParseSpecification parses a raw report request
func ParseSpecification(raw string) (*Specification, error) {
	segments := strings.Split(raw, directiveSeparator)
	name := strings.TrimSpace(segments[0])
	if name == "" {
		return nil, specificationError(raw, "", "missing report name")
	}

	spec := &Specification{ReportName: name}
	var filters []string
	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if segment == pivotDirective {
			spec.Pivot = true
			continue
		}

		directive, value, found := strings.Cut(segment, ":")
		if !found {
			return nil, specificationError(raw, segment, "unknown directive")
		}

		switch strings.TrimSpace(directive) {
		case filterDirective:
			filters = append(filters, value)
		case dimensionDirective:
			columns, err := splitColumns(raw, value)
			if err != nil {
				return nil, err
			}
			spec.Dimensions = appendUnique(spec.Dimensions, columns...)
		case metricDirective:
			columns, err := splitColumns(raw, value)
			if err != nil {
				return nil, err
			}
			spec.Metrics = appendUnique(spec.Metrics, columns...)
		case legendDirective:
			spec.Legend = strings.TrimSpace(value)
		default:
			return nil, specificationError(raw, segment, "unknown directive")
		}
	}

	filter, err := sqlbuilder.CombineFilters(filters)
	if err != nil {
		return nil, err
	}
	spec.Filter = filter

	for _, dimension := range spec.Dimensions {
		bucket, err := sqlbuilder.ParseBucket(dimension)
		if err != nil {
			return nil, err
		}
		spec.buckets = append(spec.buckets, bucket)
	}

	for _, metric := range spec.Metrics {
		agg, ok := sqlbuilder.ParseAggregate(metric)
		if !ok {
			if !sqlbuilder.IsIdentifier(metric) {
				return nil, specificationError(raw, metric, "metric is neither a column nor sum/avg/count(column)")
			}
		}
		spec.aggregates = append(spec.aggregates, agg)
	}

	dimensions := spec.DimensionColumns()
	for _, metric := range spec.Metrics {
		if contains(dimensions, metric) {
			return nil, specificationError(raw, metric, "column is both a dimension and a metric")
		}
	}
	for i, column := range dimensions {
		if contains(dimensions[:i], column) {
			return nil, specificationError(raw, column, "dimension declared twice")
		}
	}

	return spec, nil
}

// DimensionColumns returns the output column name of every declared dimension
func (s *Specification) DimensionColumns() []string {
	columns := make([]string, len(s.buckets))
	for i, bucket := range s.buckets {
		columns[i] = bucket.Column
	}
	return columns
}

// HasAggregates reports whether any declared metric is an aggregate call
func (s *Specification) HasAggregates() bool {
	for _, agg := range s.aggregates {
		if agg != nil {
			return true
		}
	}
	return false
}

// splitColumns splits a comma separated column list, ignoring commas inside parentheses
func splitColumns(raw, value string) ([]string, error) {
	var columns []string
	depth := 0
	start := 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, specificationError(raw, value, "unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				columns = append(columns, value[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, specificationError(raw, value, "unbalanced parentheses")
	}
	columns = append(columns, value[start:])

	out := make([]string, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			return nil, specificationError(raw, value, "empty column")
		}
		out = append(out, column)
	}
	return out, nil
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
