package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/dossier/internal/core/domain"
)

const namespace = "dossier"

// pipelineMetrics counts per-document pipeline outcomes; both the API and the
// worker register one.
type pipelineMetrics struct {
	service          string
	documentsTotal   *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
	processingErrors *prometheus.CounterVec
}

func newPipelineMetrics(service string) *pipelineMetrics {
	return &pipelineMetrics{
		service: service,
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "documents_total",
				Help:      "Total assembled documents by category and status.",
			},
			[]string{"service", "category", "status"},
		),
		documentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "document_duration_seconds",
				Help:      "Per-document pipeline duration in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"service", "category"},
		),
		processingErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "processing_errors_total",
				Help:      "Total documents that ended in the error status.",
			},
			[]string{"service"},
		),
	}
}

func (m *pipelineMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.documentsTotal, m.documentDuration, m.processingErrors}
}

func (m *pipelineMetrics) observe(category domain.Category, status domain.DocumentStatus, duration time.Duration) {
	cat := string(category)
	if cat == "" {
		cat = "unknown"
	}
	m.documentsTotal.WithLabelValues(m.service, cat, statusLabel(status)).Inc()
	m.documentDuration.WithLabelValues(m.service, cat).Observe(duration.Seconds())
	if status == domain.StatusError {
		m.processingErrors.WithLabelValues(m.service).Inc()
	}
}

// statusLabel keeps label values ASCII.
func statusLabel(status domain.DocumentStatus) string {
	switch status {
	case domain.StatusVerified:
		return "verified"
	case domain.StatusError:
		return "error"
	default:
		return "unknown"
	}
}
