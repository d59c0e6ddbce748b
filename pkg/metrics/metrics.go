// Package metrics exports template render counts and latencies to
// Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector records renders reported by a plates.Engine.
type Collector struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg. A nil reg
// uses the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tektonik_renders_total",
				Help: "Template renders by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tektonik_render_duration_seconds",
				Help:    "Template render latency, nested layouts and fetches included.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"outcome"},
		),
	}

	for _, collector := range []prometheus.Collector{c.renders, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return c, nil
}

// ObserveRender satisfies plates.Observer.
func (c *Collector) ObserveRender(_ string, elapsed time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.renders.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
