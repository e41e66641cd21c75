package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	SubmissionsReceived prometheus.Counter
	SubmissionsAccepted prometheus.Counter
	SubmissionsRejected prometheus.Counter
	StoreFailures       prometheus.Counter
	TokenFailures       prometheus.Counter
	ProcessingTime      prometheus.Histogram
	StoredSubmissions   prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		SubmissionsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smart_contact_form_submissions_received_total",
			Help: "Total number of submission requests received",
		}),
		SubmissionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smart_contact_form_submissions_accepted_total",
			Help: "Total number of submissions that passed validation and were stored",
		}),
		SubmissionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smart_contact_form_submissions_rejected_total",
			Help: "Total number of submissions rejected by field validation",
		}),
		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smart_contact_form_store_failures_total",
			Help: "Total number of valid submissions lost to storage failures",
		}),
		TokenFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smart_contact_form_token_failures_total",
			Help: "Total number of requests rejected by form token verification",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smart_contact_form_processing_duration_seconds",
			Help:    "Time spent validating and storing submissions",
			Buckets: prometheus.DefBuckets,
		}),
		StoredSubmissions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "smart_contact_form_stored_submissions",
			Help: "Number of submissions currently stored",
		}),
	}
}
