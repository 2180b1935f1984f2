package sqlbuilder

import (
	"regexp"
	"strings"
)

// AggregateFunc is one of the supported aggregate functions.
type AggregateFunc string

const (
	AggregateSum   AggregateFunc = "sum"
	AggregateAvg   AggregateFunc = "avg"
	AggregateCount AggregateFunc = "count"
)

var aggregatePattern = regexp.MustCompile(`(?i)^(sum|avg|count)\(\s*(distinct\s+)?(\w+)\s*\)$`)

// Aggregate is a recognised func(column) or func(distinct column) metric.
type Aggregate struct {
	Func     AggregateFunc
	Distinct bool
	Column   string
}

// ParseAggregate recognises sum/avg/count calls over a single column. It returns false
// for anything else, including malformed calls, so callers can fall back to a plain column.
func ParseAggregate(input string) (*Aggregate, bool) {
	m := aggregatePattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return nil, false
	}
	return &Aggregate{
		Func:     AggregateFunc(strings.ToLower(m[1])),
		Distinct: m[2] != "",
		Column:   m[3],
	}, true
}

func (a *Aggregate) SQL() string {
	if a.Distinct {
		return string(a.Func) + "(distinct " + QuoteIdentifier(a.Column) + ")"
	}
	return string(a.Func) + "(" + QuoteIdentifier(a.Column) + ")"
}
