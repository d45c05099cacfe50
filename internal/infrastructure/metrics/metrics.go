package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry  *prometheus.Registry
	bootstrap *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bootstrap := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "profile_bootstrap_total",
		Help:      "Profile bootstrap calls by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(bootstrap)

	return &Metrics{registry: reg, bootstrap: bootstrap}
}

// ObserveBootstrap counts one bootstrap outcome.
func (m *Metrics) ObserveBootstrap(outcome string) {
	m.bootstrap.WithLabelValues(outcome).Inc()
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
