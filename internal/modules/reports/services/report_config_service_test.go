package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/models"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/repositories"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/services"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	scheduled   []analytics.ReportConfig
	unscheduled []string
}

func (s *fakeScheduler) Schedule(config analytics.ReportConfig) error {
	s.scheduled = append(s.scheduled, config)
	return nil
}

func (s *fakeScheduler) Unschedule(tenantRecordID int64, reportName string) {
	s.unscheduled = append(s.unscheduled, reportName)
}

func newService(t *testing.T) (*services.ReportConfigService, *fakeScheduler) {
	t.Helper()

	db, err := database.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.GORM.AutoMigrate(&models.ReportConfiguration{}))

	scheduler := &fakeScheduler{}
	return services.NewReportConfigService(repositories.NewReportRepo(db.GORM), scheduler), scheduler
}

func strPtr(s string) *string { return &s }

func TestCreateReport(t *testing.T) {
	service, scheduler := newService(t)
	ctx := context.Background()

	report, err := service.CreateReport(ctx, 5, &models.CreateReportRequest{
		ReportName:       "payments",
		ReportType:       "TIMELINE",
		SourceTable:      "analytics.report_payments",
		RefreshProcedure: strPtr("refresh_payments"),
		RefreshFrequency: strPtr("HOURLY"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.TenantRecordID)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, analytics.RefreshHourly, scheduler.scheduled[0].RefreshFrequency)

	_, err = service.CreateReport(ctx, 5, &models.CreateReportRequest{
		ReportName: "payments", ReportType: "TIMELINE", SourceTable: "report_payments",
	})
	assert.True(t, errors.Is(err, services.ErrReportExists))

	// same name, other tenant
	_, err = service.CreateReport(ctx, 6, &models.CreateReportRequest{
		ReportName: "payments", ReportType: "TIMELINE", SourceTable: "report_payments",
	})
	assert.NoError(t, err)
}

func TestCreateReportValidation(t *testing.T) {
	service, _ := newService(t)

	cases := []models.CreateReportRequest{
		{ReportType: "TIMELINE", SourceTable: "t"},
		{ReportName: "a", ReportType: "PIE", SourceTable: "t"},
		{ReportName: "a", ReportType: "TABLE", SourceTable: "t; drop table x"},
		{ReportName: "a^b", ReportType: "TABLE", SourceTable: "t"},
		{ReportName: "a", ReportType: "TABLE", SourceTable: "t", RefreshFrequency: strPtr("WEEKLY")},
		{ReportName: "a", ReportType: "TABLE", SourceTable: "t", RefreshProcedure: strPtr("p()")},
	}
	for _, req := range cases {
		req := req
		_, err := service.CreateReport(context.Background(), 0, &req)
		var validationErr *services.ValidationError
		assert.True(t, errors.As(err, &validationErr), "%+v", req)
	}
}

func TestUpdateReport(t *testing.T) {
	service, scheduler := newService(t)
	ctx := context.Background()

	_, err := service.CreateReport(ctx, 0, &models.CreateReportRequest{
		ReportName:       "payments",
		ReportType:       "TIMELINE",
		SourceTable:      "report_payments",
		RefreshProcedure: strPtr("refresh_payments"),
		RefreshFrequency: strPtr("DAILY"),
	})
	require.NoError(t, err)

	pretty := "Daily payments"
	report, err := service.UpdateReport(ctx, "payments", 0, &models.UpdateReportRequest{PrettyName: &pretty})
	require.NoError(t, err)
	assert.Equal(t, "Daily payments", report.PrettyName)
	assert.NotNil(t, report.RefreshProcedure)

	report, err = service.UpdateReport(ctx, "payments", 0, &models.UpdateReportRequest{ClearRefresh: true})
	require.NoError(t, err)
	assert.Nil(t, report.RefreshProcedure)
	assert.Nil(t, report.RefreshFrequency)

	last := scheduler.scheduled[len(scheduler.scheduled)-1]
	assert.Empty(t, last.RefreshProcedure)

	_, err = service.UpdateReport(ctx, "refunds", 0, &models.UpdateReportRequest{PrettyName: &pretty})
	assert.True(t, errors.Is(err, services.ErrReportNotFound))
}

func TestDeleteReport(t *testing.T) {
	service, scheduler := newService(t)
	ctx := context.Background()

	_, err := service.CreateReport(ctx, 0, &models.CreateReportRequest{
		ReportName: "accounts", ReportType: "COUNTERS", SourceTable: "report_accounts",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteReport(ctx, "accounts", 0))
	assert.Equal(t, []string{"accounts"}, scheduler.unscheduled)

	err = service.DeleteReport(ctx, "accounts", 0)
	assert.True(t, errors.Is(err, services.ErrReportNotFound))

	_, err = service.GetReport(ctx, "accounts", 0)
	assert.True(t, errors.Is(err, services.ErrReportNotFound))
}

func TestServiceWithoutScheduler(t *testing.T) {
	db, err := database.NewTestDB()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.GORM.AutoMigrate(&models.ReportConfiguration{}))

	service := services.NewReportConfigService(repositories.NewReportRepo(db.GORM), nil)
	_, err = service.CreateReport(context.Background(), 0, &models.CreateReportRequest{
		ReportName: "accounts", ReportType: "COUNTERS", SourceTable: "report_accounts",
		RefreshProcedure: strPtr("refresh_accounts"), RefreshFrequency: strPtr("HOURLY"),
	})
	require.NoError(t, err)
	require.NoError(t, service.DeleteReport(context.Background(), "accounts", 0))
}
