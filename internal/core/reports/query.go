package reports

import (
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
)

// QueryRequest is everything needed to build the query of one report
type QueryRequest struct {
	Table          string
	Type           analytics.ReportType
	Spec           *Specification
	StartDate      *time.Time
	EndDate        *time.Time
	TenantRecordID int64
	// DateColumn is the timeline date column, DayColumnName when empty
	DateColumn string
}

// BuildQuery returns the select statement of a report with every value bound as an
// argument. Without declared dimensions or metrics every column is selected. Date bounds
// only apply to timelines.
func BuildQuery(req QueryRequest) sq.SelectBuilder {
	query := sq.Select().
		From(sqlbuilder.QuoteQualified(req.Table)).
		Where(sq.Eq{sqlbuilder.QuoteIdentifier(TenantRecordIDColumn): req.TenantRecordID})

	if !projectsColumns(req.Spec) {
		query = query.Columns("*")
	} else {
		query = selectColumns(query, req)
		if groupBy := groupByPositions(req); len(groupBy) > 0 {
			query = query.GroupBy(groupBy...)
		}
	}

	if req.Type == analytics.ReportTypeTimeline {
		query = dateBounds(query, req)
	}

	if req.Spec != nil {
		for _, bucket := range req.Spec.buckets {
			if condition := bucket.Condition(); condition != nil {
				query = query.Where(condition)
			}
		}
		if req.Spec.Filter != nil {
			query = query.Where(req.Spec.Filter)
		}
	}
	return query
}

func projectsColumns(spec *Specification) bool {
	return spec != nil && (len(spec.Dimensions) > 0 || len(spec.Metrics) > 0)
}

func dateColumn(req QueryRequest) string {
	if req.DateColumn != "" {
		return req.DateColumn
	}
	return DayColumnName
}

func selectColumns(query sq.SelectBuilder, req QueryRequest) sq.SelectBuilder {
	if req.Type == analytics.ReportTypeTimeline {
		query = query.Column(sqlbuilder.QuoteIdentifier(dateColumn(req)))
	}
	for _, bucket := range req.Spec.buckets {
		query = query.Column(bucket.Expr())
	}
	for i, metric := range req.Spec.Metrics {
		if agg := req.Spec.aggregates[i]; agg != nil {
			query = query.Column(sq.Alias(sq.Expr(agg.SQL()), sqlbuilder.QuoteIdentifier(metric)))
		} else {
			query = query.Column(sqlbuilder.QuoteIdentifier(metric))
		}
	}
	if len(req.Spec.Metrics) == 0 {
		count := sqlbuilder.QuoteIdentifier(CountColumnName)
		query = query.Column(sq.Alias(sq.Expr("sum("+count+")"), count))
	}
	return query
}

// groupByPositions groups by the position of every plain select item when the select list aggregates
func groupByPositions(req QueryRequest) []string {
	if len(req.Spec.Metrics) > 0 && !req.Spec.HasAggregates() {
		return nil
	}

	var positions []string
	position := 0
	next := func() string {
		position++
		return strconv.Itoa(position)
	}

	if req.Type == analytics.ReportTypeTimeline {
		positions = append(positions, next())
	}
	for range req.Spec.buckets {
		positions = append(positions, next())
	}
	for _, agg := range req.Spec.aggregates {
		if p := next(); agg == nil {
			positions = append(positions, p)
		}
	}
	return positions
}

// dateBounds restricts a timeline to [start, end]. A ts column holds instants, so its
// upper bound is the start of the day after end.
func dateBounds(query sq.SelectBuilder, req QueryRequest) sq.SelectBuilder {
	column := sqlbuilder.QuoteIdentifier(dateColumn(req))
	if req.StartDate != nil {
		query = query.Where(sq.GtOrEq{column: req.StartDate.Format(analytics.DayLayout)})
	}
	if req.EndDate != nil {
		if dateColumn(req) == TsColumnName {
			query = query.Where(sq.Lt{column: req.EndDate.AddDate(0, 0, 1).Format(analytics.DayLayout)})
		} else {
			query = query.Where(sq.LtOrEq{column: req.EndDate.Format(analytics.DayLayout)})
		}
	}
	return query
}
