// Package observability exposes Prometheus instrumentation for engine
// transitions and ticks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
)

// Metrics holds the engine collectors. Register them on a prometheus
// registry and wire Dispatcher into the engine.
type Metrics struct {
	transitions *prometheus.CounterVec
	tickSeconds prometheus.Histogram
	next        ports.Dispatcher
}

type Option func(*Metrics)

// WithNext chains another dispatcher after the metrics are recorded.
func WithNext(next ports.Dispatcher) Option {
	return func(m *Metrics) {
		m.next = next
	}
}

// New creates the collectors with the given namespace.
func New(namespace string, opts ...Option) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of state transition notifications",
			},
			[]string{"state", "kind"},
		),
		tickSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Duration of full engine ticks",
			},
		),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// MustRegister registers all collectors on the registry.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.transitions, m.tickSeconds)
}

// ObserveTick records the wall time of one engine tick.
func (m *Metrics) ObserveTick(seconds float64) {
	m.tickSeconds.Observe(seconds)
}

// Dispatch implements ports.Dispatcher, counting every notification by state
// and kind before forwarding to the chained dispatcher.
func (m *Metrics) Dispatch(ctx context.Context, ev domain.TransitionEvent) {
	m.transitions.WithLabelValues(ev.State, string(ev.Kind)).Inc()
	if m.next != nil {
		m.next.Dispatch(ctx, ev)
	}
}
