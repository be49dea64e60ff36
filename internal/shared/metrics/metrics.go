package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "failed"
)

var (
	registry = prometheus.NewRegistry()

	extractionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_extractions_total",
		Help: "Documents run through contact extraction.",
	}, []string{"source", "outcome"})

	fieldsFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_fields_found_total",
		Help: "Non-empty contact fields produced by extraction.",
	}, []string{"field"})

	extractionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contact_extraction_duration_ms",
		Help:    "Load and extract duration in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"source"})

	batchJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_total",
		Help: "Batch document jobs by outcome.",
	}, []string{"outcome"})

	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_exports_total",
		Help: "Export ledger entries written.",
	}, []string{"source"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		extractionsTotal,
		fieldsFoundTotal,
		extractionDuration,
		batchJobsTotal,
		exportsTotal,
	)
}

// Registry returns the registry backing /metrics.
func Registry() *prometheus.Registry {
	return registry
}

// IncExtraction counts one extraction attempt.
func IncExtraction(source, outcome string) {
	extractionsTotal.WithLabelValues(source, outcome).Inc()
}

// AddFieldsFound counts the fields an extraction filled in.
func AddFieldsFound(fields ...string) {
	for _, field := range fields {
		fieldsFoundTotal.WithLabelValues(field).Inc()
	}
}

// ObserveExtractionDuration records a load+extract duration.
func ObserveExtractionDuration(source string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	extractionDuration.WithLabelValues(source).Observe(float64(d) / float64(time.Millisecond))
}

// IncBatchJob counts a processed batch message.
func IncBatchJob(outcome string) {
	batchJobsTotal.WithLabelValues(outcome).Inc()
}

// IncExport counts a ledger append.
func IncExport(source string) {
	exportsTotal.WithLabelValues(source).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
