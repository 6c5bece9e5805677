package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsSubmitted prometheus.Counter
	RequestsApproved  prometheus.Counter
	RequestsRejected  prometheus.Counter
	ApproveDuration   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		RequestsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "siteflow_requests_submitted_total",
			Help: "Total number of site requests submitted",
		}),
		RequestsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "siteflow_requests_approved_total",
			Help: "Total number of site requests approved",
		}),
		RequestsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "siteflow_requests_rejected_total",
			Help: "Total number of site requests rejected",
		}),
		ApproveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteflow_approve_duration_seconds",
			Help:    "Duration of approve operations including provisioning",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	m.RequestsSubmitted.Inc()
}

func (m *Metrics) IncrementApproved() {
	m.RequestsApproved.Inc()
}

func (m *Metrics) IncrementRejected() {
	m.RequestsRejected.Inc()
}

func (m *Metrics) ObserveApprove(start time.Time) {
	m.ApproveDuration.Observe(time.Since(start).Seconds())
}
