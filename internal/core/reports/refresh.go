package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Refresher starts the refresh procedure of a report
type Refresher interface {
	Refresh(config analytics.ReportConfig) error
}

// RefreshSource lists the configurations that have a refresh procedure, across tenants
type RefreshSource interface {
	FindRefreshable(ctx context.Context) ([]analytics.ReportConfig, error)
}

// RefreshScheduler runs report refresh procedures hourly or daily (UTC)
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher Refresher
	entries   map[string]cron.EntryID // tenant/report -> entry
	mu        sync.RWMutex
}

func NewRefreshScheduler(refresher Refresher) *RefreshScheduler {
	return &RefreshScheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		refresher: refresher,
		entries:   make(map[string]cron.EntryID),
	}
}

// CronSpec returns the schedule of a configuration: minute 0 of every hour for HOURLY,
// minute 0 of the configured hour for DAILY.
func CronSpec(config analytics.ReportConfig) (string, error) {
	switch config.RefreshFrequency {
	case analytics.RefreshHourly:
		return "0 0 * * * *", nil
	case analytics.RefreshDaily:
		hour := 0
		if config.RefreshHourOfDay != nil {
			hour = *config.RefreshHourOfDay
		}
		if hour < 0 || hour > 23 {
			return "", fmt.Errorf("invalid refresh hour %d for report %s", hour, config.ReportName)
		}
		return fmt.Sprintf("0 0 %d * * *", hour), nil
	default:
		return "", fmt.Errorf("unknown refresh frequency %q for report %s", config.RefreshFrequency, config.ReportName)
	}
}

func entryKey(tenantRecordID int64, reportName string) string {
	return fmt.Sprintf("%d/%s", tenantRecordID, reportName)
}

// Load schedules every refreshable configuration of source
func (s *RefreshScheduler) Load(ctx context.Context, source RefreshSource) error {
	configs, err := source.FindRefreshable(ctx)
	if err != nil {
		return fmt.Errorf("failed to load refreshable reports: %w", err)
	}

	for _, config := range configs {
		if err := s.Schedule(config); err != nil {
			log.Warn().Err(err).Str("report", config.ReportName).Msg("Skipping report refresh")
		}
	}
	return nil
}

// Schedule registers config, replacing any previous schedule of the same report.
// Configurations without a procedure or frequency are only unscheduled.
func (s *RefreshScheduler) Schedule(config analytics.ReportConfig) error {
	key := entryKey(config.TenantRecordID, config.ReportName)
	if config.RefreshProcedure == "" || config.RefreshFrequency == "" {
		s.Unschedule(config.TenantRecordID, config.ReportName)
		return nil
	}

	spec, err := CronSpec(config)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.entries[key]; exists {
		s.cron.Remove(entryID)
		delete(s.entries, key)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		if err := s.refresher.Refresh(config); err != nil {
			log.Error().Err(err).Str("report", config.ReportName).Msg("Scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entries[key] = entryID
	log.Info().
		Str("report", config.ReportName).
		Int64("tenant", config.TenantRecordID).
		Str("schedule", spec).
		Time("next", s.cron.Entry(entryID).Schedule.Next(time.Now().UTC())).
		Msg("Scheduled report refresh")
	return nil
}

// Unschedule removes the schedule of a report, if any
func (s *RefreshScheduler) Unschedule(tenantRecordID int64, reportName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey(tenantRecordID, reportName)
	if entryID, exists := s.entries[key]; exists {
		s.cron.Remove(entryID)
		delete(s.entries, key)
		log.Info().Str("report", reportName).Int64("tenant", tenantRecordID).Msg("Removed report refresh")
	}
}

// Scheduled returns the tenant/report keys currently scheduled, sorted
func (s *RefreshScheduler) Scheduled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *RefreshScheduler) Start() {
	log.Info().Msg("Starting report refresh scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running refresh submissions
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Report refresh scheduler stopped")
}
