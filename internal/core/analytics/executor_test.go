package analytics_test

import (
	"context"
	"testing"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T) (*analytics.GormExecutor, *database.DB) {
	t.Helper()

	db, err := database.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.GORM.Exec(`CREATE TABLE report_payments (
		tenant_record_id INTEGER NOT NULL,
		day TEXT NOT NULL,
		currency TEXT,
		amount NUMERIC,
		count INTEGER
	)`).Error)
	require.NoError(t, db.GORM.Exec(`INSERT INTO report_payments (tenant_record_id, day, currency, amount, count) VALUES
		(1, '2013-01-01', 'USD', 10.5, 1),
		(1, '2013-01-01', 'EUR', 3, 2),
		(1, '2013-01-02', 'USD', 4, 1),
		(2, '2013-01-01', 'USD', 100, 9)`).Error)

	executor, err := analytics.NewGormExecutor(db.GORM, 8)
	require.NoError(t, err)
	return executor, db
}

func TestGormExecutorRun(t *testing.T) {
	executor, _ := newExecutor(t)

	rs, err := executor.Run(context.Background(),
		`SELECT "day", "currency", sum("count") AS "count" FROM "report_payments" WHERE "tenant_record_id" = ? GROUP BY 1, 2 ORDER BY 1, 2`,
		int64(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"day", "currency", "count"}, rs.Columns)
	require.Len(t, rs.Rows, 3)
	assert.Equal(t, "2013-01-01", rs.Rows[0]["day"])
	assert.Equal(t, "EUR", rs.Rows[0]["currency"])

	count, err := analytics.ToFloat(rs.Rows[0]["count"])
	require.NoError(t, err)
	assert.Equal(t, 2.0, count)
}

func TestGormExecutorRunBindsArguments(t *testing.T) {
	executor, _ := newExecutor(t)

	rs, err := executor.Run(context.Background(),
		`SELECT "currency", "amount" FROM "report_payments" WHERE "tenant_record_id" = ? AND "day" >= ? AND "currency" IN (?,?)`,
		int64(1), "2013-01-02", "USD", "GBP")
	require.NoError(t, err)

	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "USD", rs.Rows[0]["currency"])
}

func TestGormExecutorRunFails(t *testing.T) {
	executor, _ := newExecutor(t)

	_, err := executor.Run(context.Background(), `select * from "missing_table"`)
	assert.Error(t, err)
}

func TestGormExecutorColumnsAreCached(t *testing.T) {
	executor, db := newExecutor(t)

	columns, err := executor.Columns(context.Background(), "report_payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant_record_id", "day", "currency", "amount", "count"}, columns)

	require.NoError(t, db.GORM.Exec(`ALTER TABLE report_payments ADD COLUMN fee NUMERIC`).Error)

	cached, err := executor.Columns(context.Background(), "report_payments")
	require.NoError(t, err)
	assert.Equal(t, columns, cached)

	executor.ClearCaches()
	fresh, err := executor.Columns(context.Background(), "report_payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant_record_id", "day", "currency", "amount", "count", "fee"}, fresh)
}

func TestGormExecutorExec(t *testing.T) {
	executor, db := newExecutor(t)

	require.NoError(t, executor.Exec(context.Background(), `DELETE FROM report_payments WHERE tenant_record_id = 2`))

	var remaining int64
	require.NoError(t, db.GORM.Table("report_payments").Count(&remaining).Error)
	assert.Equal(t, int64(3), remaining)

	assert.Error(t, executor.Exec(context.Background(), `CALL "refresh_report_payments"()`))
}
