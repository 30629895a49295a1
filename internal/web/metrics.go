package web

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/models"
)

const outcomeSucceeded = "succeeded"

type metrics struct {
	estimates *prometheus.CounterVec
	duration  prometheus.Histogram

	mu      sync.Mutex
	started map[string]time.Time // request id -> Loading published
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ec2_estimator",
			Name:      "estimates_total",
			Help:      "Number of finished estimate requests by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ec2_estimator",
			Name:      "estimate_duration_seconds",
			Help:      "Time from submission to a terminal state",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		started: make(map[string]time.Time),
	}
	reg.MustRegister(m.estimates, m.duration)
	return m
}

// observe is a controller.Observer.
func (m *metrics) observe(snap controller.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch snap.State {
	case controller.Loading:
		m.started[snap.RequestID] = time.Now()
	case controller.Succeeded, controller.Failed:
		start, ok := m.started[snap.RequestID]
		if !ok {
			return
		}
		delete(m.started, snap.RequestID)
		m.record(outcome(snap.ErrorKind), time.Since(start))
	}
}

func (m *metrics) record(outcome string, elapsed time.Duration) {
	m.estimates.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func outcome(kind models.ErrorKind) string {
	if kind == "" {
		return outcomeSucceeded
	}
	return string(kind)
}
