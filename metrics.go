package wcmp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-tag counters for a Registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	transitions      *prometheus.CounterVec
	transitionErrors *prometheus.CounterVec
	attributeWrites  *prometheus.CounterVec
	events           *prometheus.CounterVec
	instances        *prometheus.GaugeVec
	dispatchSeconds  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wcmp_transitions_total",
			Help: "Transitions committed, by tag and result kind.",
		}, []string{"tag", "kind"}),
		transitionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wcmp_transition_errors_total",
			Help: "Transitions that failed, panicked or did not settle.",
		}, []string{"tag"}),
		attributeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wcmp_attribute_writes_total",
			Help: "Attribute writes made by outward reflection.",
		}, []string{"tag", "op"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wcmp_events_total",
			Help: "Events fired on elements.",
		}, []string{"tag", "type"}),
		instances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wcmp_instances",
			Help: "Live instances.",
		}, []string{"tag"}),
		dispatchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wcmp_dispatch_seconds",
			Help:    "Time from dispatch to reconciled attributes.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"tag"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.transitions,
			m.transitionErrors,
			m.attributeWrites,
			m.events,
			m.instances,
			m.dispatchSeconds,
		)
	}
	return m
}

func (m *Metrics) transition(tag string, kind Kind, d time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(tag, kind.String()).Inc()
	m.dispatchSeconds.WithLabelValues(tag).Observe(d.Seconds())
}

func (m *Metrics) transitionFailed(tag string) {
	if m == nil {
		return
	}
	m.transitionErrors.WithLabelValues(tag).Inc()
}

func (m *Metrics) attributeWrite(tag, op string) {
	if m == nil {
		return
	}
	m.attributeWrites.WithLabelValues(tag, op).Inc()
}

func (m *Metrics) event(tag, typ string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(tag, typ).Inc()
}

func (m *Metrics) instanceUp(tag string) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(tag).Inc()
}

func (m *Metrics) instanceDown(tag string) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(tag).Dec()
}
