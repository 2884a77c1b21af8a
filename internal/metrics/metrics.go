// Package metrics holds the prometheus instrumentation for builds and provider calls.
package metrics

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Provider request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballhog_requests_total",
			Help: "Total number of stats provider requests",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballhog_request_duration_seconds",
			Help:    "Duration of stats provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PacingWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ballhog_pacing_wait_seconds",
			Help:    "Time spent waiting between provider requests",
			Buckets: []float64{.05, .1, .25, .5, .65, 1, 2, 5},
		},
	)

	// Response cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ballhog_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ballhog_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// Build metrics
	SeasonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballhog_seasons_total",
			Help: "Total number of seasons processed",
		},
		[]string{"season_type", "status"},
	)

	SeasonDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballhog_season_duration_seconds",
			Help:    "Duration of a single season build in seconds",
			Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"season_type"},
	)

	RowsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ballhog_rows_computed_total",
			Help: "Total number of leaderboard rows computed",
		},
	)

	LastSuccessfulBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ballhog_last_successful_build_timestamp",
			Help: "Timestamp of the last successful build",
		},
	)
)

// RecordRequest records a provider request
func RecordRequest(endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(endpoint, status).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordPacing records time spent waiting on the pacer
func RecordPacing(duration float64) {
	PacingWait.Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordSeason records one season of a build
func RecordSeason(seasonType, status string, rows int, duration float64) {
	SeasonsTotal.WithLabelValues(seasonType, status).Inc()
	SeasonDuration.WithLabelValues(seasonType).Observe(duration)
	RowsComputed.Add(float64(rows))
}

// RecordBuildSuccess marks the end of a successful build
func RecordBuildSuccess() {
	LastSuccessfulBuild.SetToCurrentTime()
}

// Handler serves the default registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile dumps the default registry to path in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
