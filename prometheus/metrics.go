package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_login_total",
			Help: "Login attempts received by the credential store",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_register_total",
			Help: "Registration attempts received by the credential store",
		},
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_http_requests_total",
			Help: "HTTP requests served, by route, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "role_mismatch", "forbidden_role" ...
	)

	JobOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_job_operations_total",
			Help: "Total number of job operations",
		},
		[]string{"operation"},
	)

	ApplicationOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_application_operations_total",
			Help: "Total number of application operations",
		},
		[]string{"operation"},
	)

	// Resume uploads by strategy and outcome
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_resume_uploads_total",
			Help: "Total number of resume upload attempts",
		},
		[]string{"strategy", "outcome"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_db_operation_duration_seconds",
			Help:    "Database call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Tokens issued and not yet revoked through logout
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_active_tokens",
			Help: "Number of session tokens issued minus logouts",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobboard_info",
			Help: "Information about the job board service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(
		LoginCounter,
		RegisterCounter,
		HTTPRequestCounter,
		AuthErrorCounter,
		JobOperationCounter,
		ApplicationOperationCounter,
		UploadCounter,
		RequestDuration,
		DBOperationDuration,
		ActiveTokensGauge,
		InfoGauge,
	)

	InfoGauge.WithLabelValues("1.0.0").Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation times a database call. The returned func takes the start time:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// c.Path() is the route template, not the raw URL
			labels := []string{c.Path(), c.Request().Method, strconv.Itoa(c.Response().Status)}
			RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.WithLabelValues(labels...).Inc()

			return nil
		}
	}
}

// IncreaseActiveTokens counts a newly issued session token
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens counts a logout
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError counts a rejected login, registration or request by reason
func RecordAuthError(reason string) {
	AuthErrorCounter.WithLabelValues(reason).Inc()
}

// RecordJobOperation records a job registry operation
func RecordJobOperation(operation string) {
	JobOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordApplicationOperation records an application registry operation
func RecordApplicationOperation(operation string) {
	ApplicationOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordUpload records a resume upload attempt
func RecordUpload(strategy, outcome string) {
	UploadCounter.With(prometheus.Labels{"strategy": strategy, "outcome": outcome}).Inc()
}
