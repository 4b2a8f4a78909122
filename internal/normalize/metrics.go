package normalize

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ppiankov/datenorm/internal/extract"
)

// Metrics counts normalization outcomes. A nil *Metrics records nothing.
type Metrics struct {
	normalizations   *prometheus.CounterVec
	extractionErrors *prometheus.CounterVec
}

// NewMetrics registers the counters on reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		normalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datenorm_normalizations_total",
			Help: "Normalized values by property mode, outcome, matching grammar and sanitize operation.",
		}, []string{"mode", "status", "match_id", "sanitize"}),
		extractionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datenorm_extraction_errors_total",
			Help: "Values a grammar recognised but rejected as an invalid date.",
		}, []string{"extractor"}),
	}
	for _, c := range []prometheus.Collector{m.normalizations, m.extractionErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(mode Mode, res extract.Result) {
	if m == nil {
		return
	}
	m.normalizations.WithLabelValues(string(mode), string(res.Status), string(res.MatchID), string(res.Operation)).Inc()
}

func (m *Metrics) extractionError(extractor string) {
	if m == nil {
		return
	}
	m.extractionErrors.WithLabelValues(extractor).Inc()
}
