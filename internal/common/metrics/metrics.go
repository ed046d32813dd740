// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_detections_total",
			Help: "Total number of detections by resulting intent and method",
		},
		[]string{"intent", "method"},
	)

	IntentConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intent_detection_confidence",
			Help:    "Confidence of returned detections",
			Buckets: []float64{0.05, 0.1, 0.15, 0.2, 0.3, 0.4, 0.5, 0.75, 1},
		},
	)

	CorpusTokens = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intent_corpus_tokens",
			Help: "Number of trigger tokens per intent in the active corpus",
		},
		[]string{"intent"},
	)

	TrainingSourceLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_source_loads_total",
			Help: "Training source load attempts by source type and outcome",
		},
		[]string{"type", "status"},
	)

	TrainingRecordsMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_records_merged_total",
			Help: "Training records merged into the corpus per source",
		},
		[]string{"source"},
	)

	ConversationSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversation_sessions_active",
			Help: "Number of conversation sessions held in memory",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ObserveDetection records one returned detection.
func ObserveDetection(intent, method string, confidence float64) {
	IntentDetections.WithLabelValues(intent, method).Inc()
	IntentConfidence.Observe(confidence)
}

// SetCorpusSizes replaces the per-intent token gauge.
func SetCorpusSizes(sizes map[string]int) {
	CorpusTokens.Reset()
	for intent, n := range sizes {
		CorpusTokens.WithLabelValues(intent).Set(float64(n))
	}
}
