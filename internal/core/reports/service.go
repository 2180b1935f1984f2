package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
	"github.com/rs/zerolog/log"
)

// ConfigStore returns the report configurations visible to a tenant, keyed by report name
type ConfigStore interface {
	Snapshot(ctx context.Context, tenantRecordID int64) (map[string]analytics.ReportConfig, error)
}

// Executor runs report queries against storage
type Executor interface {
	Run(ctx context.Context, query string, args ...interface{}) (*analytics.ResultSet, error)
	Columns(ctx context.Context, table string) ([]string, error)
	Exec(ctx context.Context, statement string) error
}

// TenantResolver returns the tenant scope of a request
type TenantResolver interface {
	Resolve(ctx context.Context) (int64, error)
}

// FetchRequest selects the reports of one dashboard request
type FetchRequest struct {
	ReportNames []string
	StartDate   *time.Time
	EndDate     *time.Time
	Smoother    *analytics.Smoother
}

// Service fetches reports concurrently and assembles their charts
type Service struct {
	configs  ConfigStore
	executor Executor
	tenants  TenantResolver
	pool     *jobs.Pool
	metrics  *Metrics
}

func NewService(configs ConfigStore, executor Executor, tenants TenantResolver, pool *jobs.Pool, metrics *Metrics) *Service {
	return &Service{
		configs:  configs,
		executor: executor,
		tenants:  tenants,
		pool:     pool,
		metrics:  metrics,
	}
}

type reportPlan struct {
	spec       *Specification
	config     analytics.ReportConfig
	tenant     int64
	dateColumn string
	sql        string
	args       []interface{}
	// query is the statement with its arguments inlined, for errors and sql-only responses
	query string
}

type reportResult struct {
	counters []analytics.CounterMarker
	table    *analytics.TableData
	series   analytics.SeriesSet
}

// FetchCharts runs every requested report and returns their charts: counters and tables in
// request order, then timelines in request order. The first failed report fails the request.
// Reports still running at that point are left to finish and their results are dropped.
func (s *Service) FetchCharts(ctx context.Context, req FetchRequest) ([]analytics.Chart, error) {
	plans, err := s.plan(ctx, req.ReportNames, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	results, err := s.dispatch(ctx, plans)
	if err != nil {
		return nil, err
	}

	var timelines []analytics.SeriesSet
	for i, plan := range plans {
		if plan.config.Type == analytics.ReportTypeTimeline {
			timelines = append(timelines, results[i].series)
		}
	}

	if err := analytics.Normalize(timelines, req.StartDate, req.EndDate); err != nil {
		return nil, fmt.Errorf("failed to normalize timelines: %w", err)
	}
	if req.Smoother != nil {
		req.Smoother.SmoothAll(timelines)
	}

	return render(plans, results), nil
}

// CompileQueries returns the query of every requested report without running them
func (s *Service) CompileQueries(ctx context.Context, reportNames []string, start, end *time.Time) ([]string, error) {
	plans, err := s.plan(ctx, reportNames, start, end)
	if err != nil {
		return nil, err
	}

	queries := make([]string, len(plans))
	for i, plan := range plans {
		queries[i] = plan.query
	}
	return queries, nil
}

// plan parses and resolves every report before anything is dispatched
func (s *Service) plan(ctx context.Context, reportNames []string, start, end *time.Time) ([]reportPlan, error) {
	tenantID, err := s.tenants.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	specs := make([]*Specification, len(reportNames))
	for i, raw := range reportNames {
		spec, err := ParseSpecification(raw)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}

	configs, err := s.configs.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report configurations: %w", err)
	}

	plans := make([]reportPlan, len(specs))
	for i, spec := range specs {
		config, ok := configs[spec.ReportName]
		if !ok {
			return nil, unknownReport(spec.ReportName)
		}
		if !config.Type.Valid() {
			return nil, fmt.Errorf("report %s has unsupported type %q", spec.ReportName, config.Type)
		}

		dateColumn := ""
		if config.Type == analytics.ReportTypeTimeline {
			dateColumn, err = s.dateColumn(ctx, config.SourceTable)
			if err != nil {
				return nil, err
			}
		}

		query := BuildQuery(QueryRequest{
			Table:          config.SourceTable,
			Type:           config.Type,
			Spec:           spec,
			StartDate:      start,
			EndDate:        end,
			TenantRecordID: tenantID,
			DateColumn:     dateColumn,
		})
		statement, args, err := query.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build query of %s: %w", spec.ReportName, err)
		}

		plans[i] = reportPlan{
			spec:       spec,
			config:     config,
			tenant:     tenantID,
			dateColumn: dateColumn,
			sql:        statement,
			args:       args,
			query:      sqlbuilder.Render(query),
		}
	}
	return plans, nil
}

// dateColumn picks the date column of a timeline source: day when the table has one,
// otherwise ts when it has that.
func (s *Service) dateColumn(ctx context.Context, table string) (string, error) {
	columns, err := s.executor.Columns(ctx, table)
	if err != nil {
		return "", fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	if !contains(columns, DayColumnName) && contains(columns, TsColumnName) {
		return TsColumnName, nil
	}
	return DayColumnName, nil
}

// dispatch submits one task per plan and waits on them in plan order
func (s *Service) dispatch(ctx context.Context, plans []reportPlan) ([]reportResult, error) {
	results := make([]reportResult, len(plans))
	handles := make([]*jobs.Handle, len(plans))

	for i := range plans {
		i := i
		plan := plans[i]
		handle, err := s.pool.Submit(ctx, func(ctx context.Context) error {
			result, err := s.fetch(ctx, plan)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
		if err != nil {
			return nil, &ExecutionError{Report: plan.spec.ReportName, Query: plan.query, Err: err}
		}
		handles[i] = handle
	}

	for i, handle := range handles {
		if err := handle.Wait(ctx); err != nil {
			log.Error().Err(err).
				Str("report", plans[i].spec.ReportName).
				Str("table", plans[i].config.SourceTable).
				Int64("tenant", plans[i].tenant).
				Msg("Report fetch failed")
			return nil, &ExecutionError{Report: plans[i].spec.ReportName, Query: plans[i].query, Err: err}
		}
	}
	return results, nil
}

func (s *Service) fetch(ctx context.Context, plan reportPlan) (result reportResult, err error) {
	started := time.Now()
	defer func() {
		s.metrics.observeFetch(plan.config.Type, started, err)
		log.Debug().
			Str("report", plan.spec.ReportName).
			Str("table", plan.config.SourceTable).
			Int64("tenant", plan.tenant).
			Dur("duration", time.Since(started)).
			Msg("Report fetched")
	}()

	rows, err := s.executor.Run(ctx, plan.sql, plan.args...)
	if err != nil {
		return reportResult{}, err
	}

	switch plan.config.Type {
	case analytics.ReportTypeCounters:
		counters, err := counterMarkers(rows)
		return reportResult{counters: counters}, err

	case analytics.ReportTypeTable:
		columns, err := s.executor.Columns(ctx, plan.config.SourceTable)
		if err != nil {
			return reportResult{}, err
		}
		return reportResult{table: tableData(plan.config.SourceTable, columns, rows)}, nil

	case analytics.ReportTypeTimeline:
		series, err := timelineSeries(plan.spec, plan.dateColumn, rows)
		return reportResult{series: series}, err

	default:
		return reportResult{}, fmt.Errorf("unsupported report type %q", plan.config.Type)
	}
}

// counterMarkers turns every row with a label and a count into a marker
func counterMarkers(rows *analytics.ResultSet) ([]analytics.CounterMarker, error) {
	markers := []analytics.CounterMarker{}
	for _, row := range rows.Rows {
		label, count := row[LabelColumnName], row[CountColumnName]
		if label == nil || count == nil {
			continue
		}

		value, err := analytics.ToFloat(count)
		if err != nil {
			return nil, err
		}
		markers = append(markers, analytics.CounterMarker{Label: analytics.FormatLabel(label), Value: value})
	}
	return markers, nil
}

// tableData orders the result columns like the source schema. Columns unknown to the schema
// keep their result order at the end.
func tableData(name string, schema []string, rows *analytics.ResultSet) *analytics.TableData {
	if len(rows.Rows) == 0 {
		return nil
	}

	header := make([]string, 0, len(rows.Columns))
	for _, column := range schema {
		if contains(rows.Columns, column) {
			header = append(header, column)
		}
	}
	for _, column := range rows.Columns {
		if !contains(header, column) {
			header = append(header, column)
		}
	}

	values := make([][]interface{}, len(rows.Rows))
	for i, row := range rows.Rows {
		values[i] = make([]interface{}, len(header))
		for j, column := range header {
			values[i][j] = row[column]
		}
	}

	return &analytics.TableData{Name: name, Header: header, Values: values}
}

// timelineSeries splits rows into one series per metric and dimension value combination.
// Points landing on the same day of a series are summed.
func timelineSeries(spec *Specification, dateColumn string, rows *analytics.ResultSet) (analytics.SeriesSet, error) {
	roles := spec.ResolveRoles(rows.Columns)
	series := analytics.SeriesSet{}
	index := map[string]map[time.Time]int{}

	for _, row := range rows.Rows {
		date := row[dateColumn]
		if date == nil {
			continue
		}
		day, err := analytics.ParseDay(date)
		if err != nil {
			return nil, err
		}

		labels := make([]string, len(roles.Dimensions))
		for i, column := range roles.Dimensions {
			labels[i] = analytics.FormatLabel(row[column])
		}

		for _, column := range roles.Metrics {
			name := seriesName(spec, column, labels)
			value, err := analytics.ToFloat(row[column])
			if err != nil {
				return nil, err
			}

			if index[name] == nil {
				index[name] = map[time.Time]int{}
			}
			if i, ok := index[name][day]; ok {
				series[name][i].Y += value
				continue
			}
			index[name][day] = len(series[name])
			series[name] = append(series[name], analytics.XY{X: day, Y: value})
		}
	}
	return series, nil
}

func seriesName(spec *Specification, metric string, labels []string) string {
	name := metric
	if spec.Legend != "" {
		name = spec.Legend
	}
	if len(labels) == 0 {
		return name
	}
	if spec.Pivot {
		return strings.Join(labels, " :: ") + ": " + name
	}
	return name + ": " + strings.Join(labels, " :: ")
}

func render(plans []reportPlan, results []reportResult) []analytics.Chart {
	charts := make([]analytics.Chart, 0, len(plans))

	for i, plan := range plans {
		switch plan.config.Type {
		case analytics.ReportTypeCounters:
			charts = append(charts, analytics.Chart{
				Type:     analytics.ReportTypeCounters,
				Title:    title(plan),
				Counters: results[i].counters,
			})
		case analytics.ReportTypeTable:
			charts = append(charts, analytics.Chart{
				Type:  analytics.ReportTypeTable,
				Title: title(plan),
				Table: results[i].table,
			})
		}
	}

	for i, plan := range plans {
		if plan.config.Type != analytics.ReportTypeTimeline {
			continue
		}

		set := results[i].series
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)

		series := make([]analytics.NamedSeries, len(names))
		for j, name := range names {
			series[j] = analytics.NamedSeries{Name: name, Values: set[name]}
		}
		charts = append(charts, analytics.Chart{
			Type:   analytics.ReportTypeTimeline,
			Title:  title(plan),
			Series: series,
		})
	}
	return charts
}

func title(plan reportPlan) string {
	if plan.config.PrettyName != "" {
		return plan.config.PrettyName
	}
	return plan.spec.ReportName
}

// RefreshReport starts the refresh procedure of a report on the worker pool and returns
// without waiting for it.
func (s *Service) RefreshReport(ctx context.Context, reportName string) error {
	tenantID, err := s.tenants.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve tenant: %w", err)
	}

	configs, err := s.configs.Snapshot(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load report configurations: %w", err)
	}

	config, ok := configs[reportName]
	if !ok {
		return unknownReport(reportName)
	}
	return s.Refresh(config)
}

// Refresh submits the refresh procedure of config to the worker pool
func (s *Service) Refresh(config analytics.ReportConfig) error {
	if config.RefreshProcedure == "" {
		return fmt.Errorf("%w: %s", ErrNoRefreshProcedure, config.ReportName)
	}

	statement := fmt.Sprintf("CALL %s()", sqlbuilder.QuoteQualified(config.RefreshProcedure))
	_, err := s.pool.Submit(context.Background(), func(ctx context.Context) error {
		err := s.executor.Exec(ctx, statement)
		s.metrics.observeRefresh(err)
		if err != nil {
			log.Error().Err(err).Str("report", config.ReportName).Str("procedure", config.RefreshProcedure).Msg("Report refresh failed")
			return err
		}
		log.Info().Str("report", config.ReportName).Str("procedure", config.RefreshProcedure).Msg("Report refreshed")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh of %s: %w", config.ReportName, err)
	}
	return nil
}

// ClearCaches drops cached storage metadata
func (s *Service) ClearCaches() {
	if c, ok := s.executor.(interface{ ClearCaches() }); ok {
		c.ClearCaches()
	}
}
