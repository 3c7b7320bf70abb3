package session

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the operator-facing counters spec.md's ambient
// observability surface calls for: how many sessions are live, and how
// executions are distributed across outcomes. Each Manager owns its own
// registry rather than registering against the global default, so
// multiple Managers (as in tests) never collide on metric names.
type Metrics struct {
	Registry *prometheus.Registry

	activeSessions prometheus.Gauge
	outcomes       *prometheus.CounterVec
}

func newMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "codecell_active_sessions",
			Help: "Number of sessions currently held in the registry.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codecell_execution_outcomes_total",
			Help: "Completed executions, grouped by outcome kind.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(m.activeSessions, m.outcomes)
	return m
}

func (m *Metrics) setActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) observeOutcome(o Outcome) {
	kind := "success"
	if o.Error != "" {
		kind = string(o.Error)
	}
	m.outcomes.WithLabelValues(kind).Inc()
}
