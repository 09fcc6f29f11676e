package protocol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters for document handling. A nil *Metrics
// records nothing.
type Metrics struct {
	DocumentsOpened  *prometheus.CounterVec
	FieldResolutions *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kprot_documents_opened_total",
				Help: "Protocol documents opened, by container format and outcome",
			},
			[]string{"format", "outcome"},
		),
		FieldResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kprot_field_resolutions_total",
				Help: "Header field computations, by field and outcome (cache hits are not counted)",
			},
			[]string{"field", "outcome"},
		),
	}
}

func (m *Metrics) documentOpened(format, outcome string) {
	if m == nil {
		return
	}
	m.DocumentsOpened.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) fieldResolved(f Field, outcome string) {
	if m == nil {
		return
	}
	m.FieldResolutions.WithLabelValues(string(f), outcome).Inc()
}
