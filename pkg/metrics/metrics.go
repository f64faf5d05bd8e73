package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ClonesTotal         *prometheus.CounterVec
	CloneStageDuration  *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ClonesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clones_total",
			Help: "Total number of clone attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	CloneStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clone_stage_duration_seconds",
			Help:    "Duration of each clone pipeline stage.",
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120},
		},
		[]string{"stage"}, // scrape, simplify, generate
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clone_cache_lookups_total",
			Help: "Result cache lookups by outcome.",
		},
		[]string{"result"}, // hit, miss, error
	)
}
