package models

import (
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
)

// ReportConfiguration is one dashboard report of a tenant
type ReportConfiguration struct {
	RecordID       int64  `gorm:"primaryKey;autoIncrement;column:record_id" json:"record_id"`
	TenantRecordID int64  `gorm:"not null;default:0;uniqueIndex:idx_analytics_reports_tenant_name,priority:1" json:"tenant_record_id"`
	ReportName     string `gorm:"type:text;not null;uniqueIndex:idx_analytics_reports_tenant_name,priority:2" json:"report_name"`
	PrettyName     string `gorm:"type:text;column:report_pretty_name" json:"report_pretty_name"`
	ReportType     string `gorm:"type:text;not null" json:"report_type"`
	SourceTable    string `gorm:"type:text;not null;column:source_table_name" json:"source_table_name"`

	// Refresh
	RefreshProcedure *string `gorm:"type:text;column:refresh_procedure_name" json:"refresh_procedure_name,omitempty"`
	RefreshFrequency *string `gorm:"type:text" json:"refresh_frequency,omitempty"`
	RefreshHourOfDay *int    `gorm:"column:refresh_hour_of_day_gmt" json:"refresh_hour_of_day_gmt,omitempty"`

	// Timestamps
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (ReportConfiguration) TableName() string {
	return "analytics_reports"
}

// ToConfig returns the read-only view used by the report engine
func (r *ReportConfiguration) ToConfig() analytics.ReportConfig {
	config := analytics.ReportConfig{
		ReportName:       r.ReportName,
		PrettyName:       r.PrettyName,
		SourceTable:      r.SourceTable,
		Type:             analytics.ReportType(r.ReportType),
		RefreshHourOfDay: r.RefreshHourOfDay,
		TenantRecordID:   r.TenantRecordID,
	}
	if r.RefreshProcedure != nil {
		config.RefreshProcedure = *r.RefreshProcedure
	}
	if r.RefreshFrequency != nil {
		config.RefreshFrequency = analytics.RefreshFrequency(*r.RefreshFrequency)
	}
	return config
}

// CreateReportRequest represents report configuration creation request
type CreateReportRequest struct {
	ReportName       string  `json:"report_name" validate:"required,max=200,excludesall=^"`
	PrettyName       string  `json:"report_pretty_name,omitempty" validate:"max=200"`
	ReportType       string  `json:"report_type" validate:"required,oneof=COUNTERS TIMELINE TABLE"`
	SourceTable      string  `json:"source_table_name" validate:"required,max=200,qualified_identifier"`
	RefreshProcedure *string `json:"refresh_procedure_name,omitempty" validate:"omitempty,max=200,qualified_identifier"`
	RefreshFrequency *string `json:"refresh_frequency,omitempty" validate:"omitempty,oneof=HOURLY DAILY"`
	RefreshHourOfDay *int    `json:"refresh_hour_of_day_gmt,omitempty" validate:"omitempty,gte=0,lte=23"`
}

// UpdateReportRequest represents report configuration update request
type UpdateReportRequest struct {
	PrettyName       *string `json:"report_pretty_name,omitempty" validate:"omitempty,max=200"`
	ReportType       *string `json:"report_type,omitempty" validate:"omitempty,oneof=COUNTERS TIMELINE TABLE"`
	SourceTable      *string `json:"source_table_name,omitempty" validate:"omitempty,max=200,qualified_identifier"`
	RefreshProcedure *string `json:"refresh_procedure_name,omitempty" validate:"omitempty,max=200,qualified_identifier"`
	RefreshFrequency *string `json:"refresh_frequency,omitempty" validate:"omitempty,oneof=HOURLY DAILY"`
	RefreshHourOfDay *int    `json:"refresh_hour_of_day_gmt,omitempty" validate:"omitempty,gte=0,lte=23"`
	ClearRefresh     bool    `json:"clear_refresh,omitempty"` // removes the refresh settings
}
