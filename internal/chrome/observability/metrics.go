package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded by the breadcrumb service.
const (
	OutcomeRootOnly = "root_only"
	OutcomeResolved = "resolved"
	OutcomeCached   = "cached"
)

// Metrics groups the collectors exported by the chrome service.
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	NavigationRevision prometheus.Gauge
	RegistryReloads    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chrome",
			Subsystem: "breadcrumb",
			Name:      "resolutions_total",
			Help:      "Breadcrumb trails served, by outcome.",
		}, []string{"outcome"}),
		NavigationRevision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chrome",
			Subsystem: "navigation",
			Name:      "revision",
			Help:      "Revision of the navigation registry currently served.",
		}),
		RegistryReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chrome",
			Subsystem: "navigation",
			Name:      "reloads_total",
			Help:      "Navigation registry reloads, by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Resolutions, m.NavigationRevision, m.RegistryReloads)
	}
	return m
}

// ObserveResolution counts one served trail. Safe on a nil receiver.
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveReload records a registry reload and, on success, the new revision.
// Safe on a nil receiver.
func (m *Metrics) ObserveReload(revision uint64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RegistryReloads.WithLabelValues("error").Inc()
		return
	}
	m.RegistryReloads.WithLabelValues("ok").Inc()
	m.NavigationRevision.Set(float64(revision))
}
