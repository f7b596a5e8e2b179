package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request counter
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP request duration histogram
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// Active HTTP connections gauge
	HTTPActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	// Import pipeline outcomes per candidate row
	ImportCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_candidates_total",
			Help: "Total number of screened import candidates",
		},
		[]string{"result"}, // "accepted", "duplicate", "invalid"
	)

	// Room moves applied through the store
	RoomMovesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "room_moves_total",
			Help: "Total number of applied room reassignments",
		},
	)

	// Patient deletions
	PatientDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patient_deletions_total",
			Help: "Total number of deleted patients",
		},
	)

	// Current roster size
	RosterSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roster_patients",
			Help: "Number of patients currently on the roster",
		},
	)

	// Snapshot persistence failures (swallowed at the boundary)
	SnapshotSaveFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_save_failures_total",
			Help: "Total number of failed roster snapshot writes",
		},
	)

	GoMemstatsAllocBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medimap_go_memstats_alloc_bytes",
			Help: "Number of bytes allocated and still in use",
		},
		[]string{"service"},
	)

	GoMemstatsSysBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medimap_go_memstats_sys_bytes",
			Help: "Number of bytes obtained from system",
		},
		[]string{"service"},
	)

	GoThreads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medimap_go_threads",
			Help: "Number of OS threads created",
		},
		[]string{"service"},
	)
)

// RecordHTTPRequest records metrics for an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)

	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordImportResults records screened candidate outcomes
func RecordImportResults(result string, count int) {
	if count > 0 {
		ImportCandidatesTotal.WithLabelValues(result).Add(float64(count))
	}
}

// IncActiveConnections increments active connections
func IncActiveConnections() {
	HTTPActiveConnections.Inc()
}

// DecActiveConnections decrements active connections
func DecActiveConnections() {
	HTTPActiveConnections.Dec()
}

// UpdateRuntimeMetrics updates Go runtime metrics with service label
func UpdateRuntimeMetrics(serviceName string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	GoMemstatsAllocBytes.WithLabelValues(serviceName).Set(float64(m.Alloc))
	GoMemstatsSysBytes.WithLabelValues(serviceName).Set(float64(m.Sys))
	GoThreads.WithLabelValues(serviceName).Set(float64(runtime.GOMAXPROCS(0)))
}
