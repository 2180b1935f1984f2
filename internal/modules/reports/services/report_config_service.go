package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/models"
	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/modules/reports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrReportExists   = errors.New("report already exists")
)

// Scheduler keeps the refresh schedule in step with stored configurations
type Scheduler interface {
	Schedule(config analytics.ReportConfig) error
	Unschedule(tenantRecordID int64, reportName string)
}

type ReportConfigService struct {
	repo      repositories.ReportRepo
	validate  *validator.Validate
	scheduler Scheduler
}

// NewReportConfigService creates the configuration service. scheduler may be nil when
// scheduled refreshes are disabled.
func NewReportConfigService(repo repositories.ReportRepo, scheduler Scheduler) *ReportConfigService {
	return &ReportConfigService{
		repo:      repo,
		validate:  NewValidator(),
		scheduler: scheduler,
	}
}

func (s *ReportConfigService) ListReports(ctx context.Context, tenantRecordID int64) ([]models.ReportConfiguration, error) {
	reports, err := s.repo.FindAll(ctx, tenantRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []models.ReportConfiguration{}
	}
	return reports, nil
}

func (s *ReportConfigService) GetReport(ctx context.Context, reportName string, tenantRecordID int64) (*models.ReportConfiguration, error) {
	report, err := s.repo.FindByName(ctx, reportName, tenantRecordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportName)
		}
		return nil, fmt.Errorf("failed to get report %s: %w", reportName, err)
	}
	return report, nil
}

func (s *ReportConfigService) CreateReport(ctx context.Context, tenantRecordID int64, req *models.CreateReportRequest) (*models.ReportConfiguration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.repo.FindByName(ctx, req.ReportName, tenantRecordID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrReportExists, req.ReportName)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check report %s: %w", req.ReportName, err)
	}

	report := &models.ReportConfiguration{
		TenantRecordID:   tenantRecordID,
		ReportName:       req.ReportName,
		PrettyName:       req.PrettyName,
		ReportType:       req.ReportType,
		SourceTable:      req.SourceTable,
		RefreshProcedure: emptyToNil(req.RefreshProcedure),
		RefreshFrequency: emptyToNil(req.RefreshFrequency),
		RefreshHourOfDay: req.RefreshHourOfDay,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report %s: %w", req.ReportName, err)
	}

	s.reschedule(report)
	log.Info().Str("report", report.ReportName).Int64("tenant", tenantRecordID).Msg("Report configuration created")
	return report, nil
}

func (s *ReportConfigService) UpdateReport(ctx context.Context, reportName string, tenantRecordID int64, req *models.UpdateReportRequest) (*models.ReportConfiguration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	report, err := s.GetReport(ctx, reportName, tenantRecordID)
	if err != nil {
		return nil, err
	}

	if req.PrettyName != nil {
		report.PrettyName = *req.PrettyName
	}
	if req.ReportType != nil {
		report.ReportType = *req.ReportType
	}
	if req.SourceTable != nil {
		report.SourceTable = *req.SourceTable
	}
	if req.ClearRefresh {
		report.RefreshProcedure = nil
		report.RefreshFrequency = nil
		report.RefreshHourOfDay = nil
	}
	if req.RefreshProcedure != nil {
		report.RefreshProcedure = req.RefreshProcedure
	}
	if req.RefreshFrequency != nil {
		report.RefreshFrequency = req.RefreshFrequency
	}
	if req.RefreshHourOfDay != nil {
		report.RefreshHourOfDay = req.RefreshHourOfDay
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to update report %s: %w", reportName, err)
	}

	s.reschedule(report)
	return report, nil
}

func (s *ReportConfigService) DeleteReport(ctx context.Context, reportName string, tenantRecordID int64) error {
	if err := s.repo.Delete(ctx, reportName, tenantRecordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrReportNotFound, reportName)
		}
		return fmt.Errorf("failed to delete report %s: %w", reportName, err)
	}

	if s.scheduler != nil {
		s.scheduler.Unschedule(tenantRecordID, reportName)
	}
	return nil
}

func (s *ReportConfigService) reschedule(report *models.ReportConfiguration) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Schedule(report.ToConfig()); err != nil {
		log.Warn().Err(err).Str("report", report.ReportName).Msg("Failed to schedule report refresh")
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
