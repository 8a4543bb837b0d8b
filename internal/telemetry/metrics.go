package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	cacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_reads_total",
		Help: "Cache reads by outcome (hit or miss)",
	}, []string{"outcome"})

	sheetFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_sheet_fetch_failures_total",
		Help: "Failed sheet fetches by sheet name",
	}, []string{"sheet"})

	paymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_verifications_total",
		Help: "Payment verification attempts by outcome",
	}, []string{"outcome"})

	ledgerAppendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_ledger_append_failures_total",
		Help: "Ledger append failures after a verified payment",
	})
)

// RecordCacheRead counts a cache hit or miss.
func RecordCacheRead(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheReads.WithLabelValues(outcome).Inc()
}

// RecordSheetFetchFailure counts a failed sheet fetch.
func RecordSheetFetchFailure(sheet string) {
	sheetFetchFailures.WithLabelValues(sheet).Inc()
}

// RecordPaymentVerification counts a verification outcome
// (success, status_mismatch, reference_mismatch, amount_mismatch, error).
func RecordPaymentVerification(outcome string) {
	paymentVerifications.WithLabelValues(outcome).Inc()
}

// RecordLedgerAppendFailure counts a ledger write that failed after the
// payment itself was verified.
func RecordLedgerAppendFailure() {
	ledgerAppendFailures.Inc()
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the prometheus registry for the /metrics route.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
