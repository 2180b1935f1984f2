package reports

// IsDateColumn reports whether column holds the row's date
func IsDateColumn(column string) bool {
	return column == DayColumnName || column == TsColumnName
}

// IsMetric reports whether column is plotted as a value. Undeclared roles are inferred:
// with nothing declared only the count column is a metric; with only dimensions declared
// every other non-date column is.
func (s *Specification) IsMetric(column string) bool {
	if IsDateColumn(column) || column == TenantRecordIDColumn {
		return false
	}
	if len(s.Metrics) > 0 {
		return contains(s.Metrics, column)
	}
	if len(s.Dimensions) == 0 {
		return column == CountColumnName
	}
	return !contains(s.DimensionColumns(), column)
}

// IsDimension reports whether column splits rows into separate series. With nothing declared
// every column but count is a dimension; with only metrics declared every non-metric column is.
func (s *Specification) IsDimension(column string) bool {
	if IsDateColumn(column) || column == TenantRecordIDColumn {
		return false
	}
	if len(s.Dimensions) > 0 {
		return contains(s.DimensionColumns(), column)
	}
	if len(s.Metrics) == 0 {
		return column != CountColumnName
	}
	return !contains(s.Metrics, column)
}

// Roles is the resolved split of result columns
type Roles struct {
	Dimensions []string
	Metrics    []string
}

// ResolveRoles classifies columns, keeping their order. Columns that are neither are dropped.
func (s *Specification) ResolveRoles(columns []string) Roles {
	roles := Roles{Dimensions: []string{}, Metrics: []string{}}
	for _, column := range columns {
		switch {
		case s.IsMetric(column):
			roles.Metrics = append(roles.Metrics, column)
		case s.IsDimension(column):
			roles.Dimensions = append(roles.Dimensions, column)
		}
	}
	return roles
}
