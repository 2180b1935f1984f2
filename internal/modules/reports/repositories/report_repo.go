package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/models"
	"gorm.io/gorm"
)

type ReportRepo interface {
	FindAll(ctx context.Context, tenantRecordID int64) ([]models.ReportConfiguration, error)
	FindByName(ctx context.Context, reportName string, tenantRecordID int64) (*models.ReportConfiguration, error)
	Create(ctx context.Context, report *models.ReportConfiguration) error
	Update(ctx context.Context, report *models.ReportConfiguration) error
	Delete(ctx context.Context, reportName string, tenantRecordID int64) error

	// Snapshot and FindRefreshable feed the report engine
	Snapshot(ctx context.Context, tenantRecordID int64) (map[string]analytics.ReportConfig, error)
	FindRefreshable(ctx context.Context) ([]analytics.ReportConfig, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &reportRepo{db: db}
}

func (r *reportRepo) FindAll(ctx context.Context, tenantRecordID int64) ([]models.ReportConfiguration, error) {
	var reports []models.ReportConfiguration
	err := r.db.WithContext(ctx).
		Where("tenant_record_id = ?", tenantRecordID).
		Order("report_pretty_name ASC").
		Order("report_name ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) FindByName(ctx context.Context, reportName string, tenantRecordID int64) (*models.ReportConfiguration, error) {
	var report models.ReportConfiguration
	err := r.db.WithContext(ctx).
		Where("tenant_record_id = ? AND report_name = ?", tenantRecordID, reportName).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) Create(ctx context.Context, report *models.ReportConfiguration) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) Update(ctx context.Context, report *models.ReportConfiguration) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepo) Delete(ctx context.Context, reportName string, tenantRecordID int64) error {
	result := r.db.WithContext(ctx).
		Where("tenant_record_id = ? AND report_name = ?", tenantRecordID, reportName).
		Delete(&models.ReportConfiguration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepo) Snapshot(ctx context.Context, tenantRecordID int64) (map[string]analytics.ReportConfig, error) {
	reports, err := r.FindAll(ctx, tenantRecordID)
	if err != nil {
		return nil, err
	}

	configs := make(map[string]analytics.ReportConfig, len(reports))
	for i := range reports {
		configs[reports[i].ReportName] = reports[i].ToConfig()
	}
	return configs, nil
}

func (r *reportRepo) FindRefreshable(ctx context.Context) ([]analytics.ReportConfig, error) {
	var reports []models.ReportConfiguration
	err := r.db.WithContext(ctx).
		Where("refresh_procedure_name IS NOT NULL AND refresh_procedure_name <> ''").
		Where("refresh_frequency IS NOT NULL").
		Order("tenant_record_id ASC").
		Order("report_name ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	configs := make([]analytics.ReportConfig, 0, len(reports))
	for i := range reports {
		configs = append(configs, reports[i].ToConfig())
	}
	return configs, nil
}
