package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LoaderMetrics records per-file and per-pass loader activity.
type LoaderMetrics struct {
	registry *prometheus.Registry

	filesTotal    *prometheus.CounterVec
	fileDuration  *prometheus.HistogramVec
	passDocuments prometheus.Gauge
}

func NewLoaderMetrics() *LoaderMetrics {
	registry := prometheus.NewRegistry()

	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pharmadocs",
			Subsystem: "loader",
			Name:      "files_total",
			Help:      "Files processed by format and status.",
		},
		[]string{"format", "status"},
	)
	fileDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pharmadocs",
			Subsystem: "loader",
			Name:      "file_duration_seconds",
			Help:      "Time spent extracting and segmenting one file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"format"},
	)
	passDocuments := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pharmadocs",
			Subsystem: "loader",
			Name:      "pass_documents",
			Help:      "Documents returned by the most recent full load pass.",
		},
	)

	registry.MustRegister(filesTotal, fileDuration, passDocuments)

	return &LoaderMetrics{
		registry:      registry,
		filesTotal:    filesTotal,
		fileDuration:  fileDuration,
		passDocuments: passDocuments,
	}
}

func (m *LoaderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFile records one extraction attempt.
func (m *LoaderMetrics) ObserveFile(format string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.filesTotal.WithLabelValues(format, status).Inc()
	m.fileDuration.WithLabelValues(format).Observe(duration.Seconds())
}

func (m *LoaderMetrics) ObservePass(documents int) {
	m.passDocuments.Set(float64(documents))
}
