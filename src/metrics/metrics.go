package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline Prometheus metrics.
var (
	ChunksIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "localrag",
			Name:      "chunks_ingested_total",
			Help:      "Total number of chunks embedded and stored",
		},
	)

	StageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localrag",
			Name:      "stage_errors_total",
			Help:      "Total number of failed pipeline stage calls",
		},
		[]string{"stage"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localrag",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage call duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)
)

var registerOnce sync.Once

// Register registers the pipeline metrics with reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ChunksIngestedTotal, StageErrorsTotal, StageDuration)
	})
}

// ObserveStage records the duration of one stage call and counts it as an
// error when err is non-nil.
func ObserveStage(stage string, start time.Time, err error) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		StageErrorsTotal.WithLabelValues(stage).Inc()
	}
}
