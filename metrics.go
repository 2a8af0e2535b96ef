package userforms

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the form collectors. A nil *Metrics records nothing.
type Metrics struct {
	submits  *prometheus.CounterVec
	previews prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "userforms",
			Name:      "submits_total",
			Help:      "Form submits by form and outcome.",
		}, []string{"form", "outcome"}),
		previews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "userforms",
			Name:      "avatar_previews",
			Help:      "Avatar preview references currently held.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submits, m.previews)
	}
	return m
}

func (m *Metrics) observeSubmit(form string, phase Phase) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(form, phase.String()).Inc()
}

func (m *Metrics) setPreviews(n int) {
	if m == nil {
		return
	}
	m.previews.Set(float64(n))
}
