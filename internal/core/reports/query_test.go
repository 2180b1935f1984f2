package reports

import (
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/reports/sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		reportType analytics.ReportType
		table      string
		dateColumn string
		start, end *time.Time
		want       string
	}{
		{
			name:       "select all for counters",
			raw:        "accounts",
			reportType: analytics.ReportTypeCounters,
			table:      "report_accounts_summary",
			start:      day(2013, 1, 1),
			want:       `SELECT * FROM "report_accounts_summary" WHERE "tenant_record_id" = '7'`,
		},
		{
			name:       "timeline with bucket, aggregate, filter and range",
			raw:        "payments^filter:state=PROCESSED^dimension:currency(USD|EUR|-)^metric:sum(amount)",
			reportType: analytics.ReportTypeTimeline,
			table:      "report_payments_per_day",
			start:      day(2013, 1, 1),
			end:        day(2013, 1, 31),
			want: `SELECT "day", (CASE WHEN "currency" = 'USD' THEN 'USD' WHEN "currency" = 'EUR' THEN 'EUR' END) AS "currency", ` +
				`(sum("amount")) AS "sum(amount)" FROM "report_payments_per_day" ` +
				`WHERE "tenant_record_id" = '7' AND "day" >= '2013-01-01' AND "day" <= '2013-01-31' ` +
				`AND "currency" IN ('USD','EUR') AND "state" = 'PROCESSED' GROUP BY 1, 2`,
		},
		{
			name:       "timeline with only dimensions sums the count column",
			raw:        "payments^dimension:currency",
			reportType: analytics.ReportTypeTimeline,
			table:      "report_payments_per_day",
			want: `SELECT "day", "currency", (sum("count")) AS "count" FROM "report_payments_per_day" ` +
				`WHERE "tenant_record_id" = '7' GROUP BY 1, 2`,
		},
		{
			name:       "timeline with only an end bound",
			raw:        "payments^metric:count(distinct account_id)",
			reportType: analytics.ReportTypeTimeline,
			table:      "analytics.report_payments",
			end:        day(2014, 2, 28),
			want: `SELECT "day", (count(distinct "account_id")) AS "count(distinct account_id)" FROM "analytics"."report_payments" ` +
				`WHERE "tenant_record_id" = '7' AND "day" <= '2014-02-28' GROUP BY 1`,
		},
		{
			name:       "timeline over a ts column bounds the end exclusively",
			raw:        "payments^dimension:currency",
			reportType: analytics.ReportTypeTimeline,
			table:      "report_payments",
			dateColumn: TsColumnName,
			start:      day(2013, 1, 1),
			end:        day(2013, 1, 31),
			want: `SELECT "ts", "currency", (sum("count")) AS "count" FROM "report_payments" ` +
				`WHERE "tenant_record_id" = '7' AND "ts" >= '2013-01-01' AND "ts" < '2013-02-01' GROUP BY 1, 2`,
		},
		{
			name:       "plain metrics are not grouped",
			raw:        "payments^metric:amount,fee",
			reportType: analytics.ReportTypeTable,
			table:      "report_payments",
			start:      day(2013, 1, 1),
			end:        day(2013, 1, 31),
			want:       `SELECT "amount", "fee" FROM "report_payments" WHERE "tenant_record_id" = '7'`,
		},
		{
			name:       "mixed plain and aggregate metrics group by the plain positions",
			raw:        "payments^dimension:currency^metric:sum(amount),state",
			reportType: analytics.ReportTypeTable,
			table:      "report_payments",
			want: `SELECT "currency", (sum("amount")) AS "sum(amount)", "state" FROM "report_payments" ` +
				`WHERE "tenant_record_id" = '7' GROUP BY 1, 3`,
		},
		{
			name:       "aggregate only",
			raw:        "payments^metric:sum(amount)^filter:currency=USD|currency=EUR",
			reportType: analytics.ReportTypeCounters,
			table:      "report_payments",
			want: `SELECT (sum("amount")) AS "sum(amount)" FROM "report_payments" ` +
				`WHERE "tenant_record_id" = '7' AND ("currency" = 'EUR' OR "currency" = 'USD')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSpecification(tt.raw)
			require.NoError(t, err)

			got := BuildQuery(QueryRequest{
				Table:          tt.table,
				Type:           tt.reportType,
				Spec:           spec,
				StartDate:      tt.start,
				EndDate:        tt.end,
				TenantRecordID: 7,
				DateColumn:     tt.dateColumn,
			})
			assert.Equal(t, tt.want, sqlbuilder.Render(got))
		})
	}
}

func TestBuildQueryBindsValues(t *testing.T) {
	spec, err := ParseSpecification("payments^filter:state=PROCESSED^dimension:currency(USD|EUR|-)^metric:sum(amount)")
	require.NoError(t, err)

	query, args, err := BuildQuery(QueryRequest{
		Table:          "report_payments_per_day",
		Type:           analytics.ReportTypeTimeline,
		Spec:           spec,
		StartDate:      day(2013, 1, 1),
		EndDate:        day(2013, 1, 31),
		TenantRecordID: 7,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, `SELECT "day", (CASE WHEN "currency" = ? THEN ? WHEN "currency" = ? THEN ? END) AS "currency", `+
		`(sum("amount")) AS "sum(amount)" FROM "report_payments_per_day" `+
		`WHERE "tenant_record_id" = ? AND "day" >= ? AND "day" <= ? AND "currency" IN (?,?) AND "state" = ? GROUP BY 1, 2`, query)
	assert.Equal(t, []interface{}{
		"USD", "USD", "EUR", "EUR",
		int64(7), "2013-01-01", "2013-01-31", "USD", "EUR", "PROCESSED",
	}, args)
}

func TestBuildQueryIsDeterministic(t *testing.T) {
	build := func(raw string) string {
		spec, err := ParseSpecification(raw)
		require.NoError(t, err)
		return sqlbuilder.Render(BuildQuery(QueryRequest{Table: "t", Type: analytics.ReportTypeTimeline, Spec: spec}))
	}

	assert.Equal(t,
		build("r^filter:currency=USD|currency=EUR^filter:state=PROCESSED"),
		build("r^filter:state=PROCESSED^filter:currency=EUR|currency=USD"))
}
