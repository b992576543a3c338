// Package metrics provides Prometheus metrics for the treeview server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "treeview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	treeBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeview_tree_builds_total",
			Help: "Total number of tree builds",
		},
		[]string{"result"},
	)

	treeBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "treeview_tree_build_duration_seconds",
			Help:    "Time to materialize a project tree",
			Buckets: prometheus.DefBuckets,
		},
	)

	toggleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeview_directory_toggles_total",
			Help: "Total directory expand/collapse toggles",
		},
		[]string{"state"},
	)

	fileBytesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeview_file_bytes_served_total",
			Help: "Total file bytes served by the download and view endpoints",
		},
		[]string{"endpoint"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "treeview_active_sessions",
			Help: "Number of sessions holding expansion state",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTreeBuild records the outcome and duration of one tree build.
func RecordTreeBuild(duration time.Duration, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	treeBuildsTotal.WithLabelValues(result).Inc()
	treeBuildDuration.Observe(duration.Seconds())
}

// RecordToggle records a directory toggle.
func RecordToggle(expanded bool) {
	state := "collapsed"
	if expanded {
		state = "expanded"
	}
	toggleTotal.WithLabelValues(state).Inc()
}

// RecordFileBytes records bytes sent to a client by endpoint.
func RecordFileBytes(endpoint string, bytes int64) {
	fileBytesServed.WithLabelValues(endpoint).Add(float64(bytes))
}

// SetActiveSessions sets the live session gauge.
func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}
