package reports

import (
	"time"

	"github.com/MuhamadAgungGumelar/analytics-engine-be/internal/core/analytics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments report fetches. A nil *Metrics records nothing.
type Metrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
}

// NewMetrics registers the report metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "analytics",
			Name:      "report_fetch_duration_seconds",
			Help:      "Time spent running and decoding one report query.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report_type"}),
		fetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analytics",
			Name:      "report_fetch_failures_total",
			Help:      "Report fetches that returned an error.",
		}, []string{"report_type"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "analytics",
			Name:      "report_refreshes_total",
			Help:      "Refresh procedure runs by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeFetch(reportType analytics.ReportType, started time.Time, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(string(reportType)).Observe(time.Since(started).Seconds())
	if err != nil {
		m.fetchFailures.WithLabelValues(string(reportType)).Inc()
	}
}

func (m *Metrics) observeRefresh(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}
