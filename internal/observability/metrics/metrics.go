// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guttosm/packflow/internal/logger"
)

const (
	metricPrefix = "packflow_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	revenueComputeTotal   *prometheus.CounterVec
	revenueComputeLatency *prometheus.HistogramVec

	smsSentTotal *prometheus.CounterVec

	exportTotal *prometheus.CounterVec

	importRowsTotal prometheus.Counter
)

// Init registers the collectors. A non-nil db also registers table gauges.
// Calling it more than once is harmless.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		revenueComputeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "revenue_compute_total",
				Help: "Total revenue computations by operation and result",
			},
			[]string{"operation", "result"},
		)
		revenueComputeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "revenue_compute_latency_seconds",
				Help:    "Revenue computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)

		smsSentTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sms_sent_total",
				Help: "Total SMS send attempts by result",
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total document exports by format and result",
			},
			[]string{"format", "result"},
		)

		importRowsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_rows_total",
				Help: "Total payment rows bulk imported",
			},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			revenueComputeTotal,
			revenueComputeLatency,
			smsSentTotal,
			exportTotal,
			importRowsTotal,
		)

		if db != nil {
			registerDBMetrics(db)
		}
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// ObserveRevenue records a revenue computation.
func ObserveRevenue(operation string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if revenueComputeTotal != nil {
		revenueComputeTotal.WithLabelValues(operation, result).Inc()
	}
	if revenueComputeLatency != nil {
		revenueComputeLatency.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// IncSMS counts an SMS send attempt.
func IncSMS(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if smsSentTotal != nil {
		smsSentTotal.WithLabelValues(result).Inc()
	}
}

// IncExport counts a rendered document.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// AddImportedRows counts bulk imported payments.
func AddImportedRows(n int) {
	if n <= 0 {
		return
	}
	if importRowsTotal != nil {
		importRowsTotal.Add(float64(n))
	}
}

func registerDBMetrics(db *sql.DB) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "payments_pending",
			Help: "Payment requests awaiting a client decision",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM payments WHERE status = 'pending'")
		},
	))
}

func queryCount(db *sql.DB, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		logger.L().Warn().Err(err).Msg("metrics query failed")
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
