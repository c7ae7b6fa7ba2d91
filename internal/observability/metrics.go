package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "accident_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset metrics.
	DatasetRows         prometheus.Gauge
	DatasetLoadDuration prometheus.Histogram
	DatasetLoadErrors   prometheus.Counter
	SectionErrors       *prometheus.CounterVec // labels: section

	// Alert metrics.
	AlertDecisions       *prometheus.CounterVec // labels: condition={overspeeding,alcohol,none}
	CaptchaIssued        prometheus.Counter
	CaptchaVerifications *prometheus.CounterVec // labels: result={match,mismatch}

	// Notifier metrics.
	Notifications    *prometheus.CounterVec   // labels: backend, outcome={success,error}
	NotifierDuration *prometheus.HistogramVec // labels: backend
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.DatasetLoadErrors,
		m.SectionErrors,
		m.AlertDecisions,
		m.CaptchaIssued,
		m.CaptchaVerifications,
		m.Notifications,
		m.NotifierDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Number of accident records in the loaded dataset.",
		}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time taken to read the dataset from its source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_load_errors_total",
			Help:      "Dataset loads that failed.",
		}),
		SectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_errors_total",
			Help:      "Summary sections that failed with a data error.",
		}, []string{"section"}),
		AlertDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_decisions_total",
			Help:      "Alert decisions by triggered condition.",
		}, []string{"condition"}),
		CaptchaIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captcha_issued_total",
			Help:      "Captcha challenges issued.",
		}),
		CaptchaVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captcha_verifications_total",
			Help:      "Captcha verification attempts by result.",
		}, []string{"result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Alert notifications by backend and outcome.",
		}, []string{"backend", "outcome"}),
		NotifierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notifier_duration_seconds",
			Help:      "Notifier send duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"backend"}),
	}
}
