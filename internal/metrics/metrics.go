// Package metrics holds the Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics counts pipeline activity. Exposed on the dashboard server
// at /metrics.
type PipelineMetrics struct {
	RunsTotal       *prometheus.CounterVec
	TweetsFetched   prometheus.Counter
	EventsProduced  prometheus.Counter
	ClassifyErrors  prometheus.Counter
	LastRunDuration prometheus.Gauge
}

// New initializes and registers the pipeline metrics on the default
// registry.
func New() *PipelineMetrics {
	return &PipelineMetrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finjuice",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status.",
		}, []string{"status"}), // status: completed, empty, failed
		TweetsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "finjuice",
			Subsystem: "pipeline",
			Name:      "tweets_fetched_total",
			Help:      "Total number of raw tweets fetched.",
		}),
		EventsProduced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "finjuice",
			Subsystem: "pipeline",
			Name:      "events_produced_total",
			Help:      "Total number of structured events written.",
		}),
		ClassifyErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "finjuice",
			Subsystem: "pipeline",
			Name:      "classify_errors_total",
			Help:      "Total number of failed classification calls.",
		}),
		LastRunDuration: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "finjuice",
			Subsystem: "pipeline",
			Name:      "last_run_duration_seconds",
			Help:      "Wall-clock duration of the most recent pipeline run.",
		}),
	}
}
