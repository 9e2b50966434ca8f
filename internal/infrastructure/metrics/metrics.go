package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"shopify-insights-service/internal/domain"
)

// Ingestion holds the Prometheus instruments for the reconciliation engine.
type Ingestion struct {
	runsTotal    *prometheus.CounterVec
	recordsTotal *prometheus.CounterVec
}

// NewIngestion builds the ingestion metrics and registers them with reg.
func NewIngestion(reg prometheus.Registerer) *Ingestion {
	m := &Ingestion{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopify_insights",
				Subsystem: "ingestion",
				Name:      "runs_total",
				Help:      "Total number of completed ingestion runs.",
			},
			[]string{"resource", "mode"},
		),
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopify_insights",
				Subsystem: "ingestion",
				Name:      "records_total",
				Help:      "Total number of reconciled records by outcome.",
			},
			[]string{"resource", "outcome"},
		),
	}
	reg.MustRegister(m.runsTotal, m.recordsTotal)
	return m
}

// ObserveRun records the outcome of one committed ingestion batch.
func (m *Ingestion) ObserveRun(resource, mode string, result *domain.IngestResult) {
	m.runsTotal.WithLabelValues(resource, mode).Inc()
	m.recordsTotal.WithLabelValues(resource, "created").Add(float64(result.Created))
	m.recordsTotal.WithLabelValues(resource, "updated").Add(float64(result.Updated))
	m.recordsTotal.WithLabelValues(resource, "skipped").Add(float64(result.Skipped))
}
