// Package metrics holds the prometheus collectors for archive processing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses.
const (
	StatusOK        = "ok"
	StatusFatal     = "fatal"
	StatusCancelled = "cancelled"
)

// Layer outcomes.
const (
	LayerProcessed    = "processed"
	LayerSkipped      = "skipped"
	LayerUnrecognized = "unrecognized"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carproc_runs_total",
			Help: "Archives processed, by final status",
		},
		[]string{"status"},
	)

	LayersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carproc_layers_total",
			Help: "Shapefile layers seen, by outcome",
		},
		[]string{"outcome"},
	)

	FeaturesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carproc_features_total",
			Help: "Features written to output archives",
		},
	)

	ProcessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carproc_process_duration_seconds",
			Help:    "Wall time of one archive processing run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// ObserveRun records one finished run.
func ObserveRun(status string, elapsed time.Duration, features int) {
	RunsTotal.WithLabelValues(status).Inc()
	ProcessDuration.Observe(elapsed.Seconds())
	if features > 0 {
		FeaturesTotal.Add(float64(features))
	}
}

// ObserveLayer records the outcome of one layer.
func ObserveLayer(outcome string) {
	LayersTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
