package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_analysis_total",
			Help: "Client analyses served, by source (external or fallback-local)",
		},
		[]string{"source"},
	)

	analysisFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_analysis_fallbacks_total",
			Help: "Analyses that fell back to the local classifier, by reason",
		},
		[]string{"reason"},
	)

	automationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_runs_total",
			Help: "Bulk inactivation runs, by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	clientsInactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automation_clients_inactivated_total",
			Help: "Clients moved to Inactive by the automation",
		},
	)

	inactivationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automation_client_update_failures_total",
			Help: "Per-client update failures during bulk inactivation",
		},
	)
)

// RecordAnalysis counts one served analysis
func RecordAnalysis(source string) {
	analysisTotal.WithLabelValues(source).Inc()
}

// RecordFallback counts why the external analysis was discarded
func RecordFallback(reason string) {
	analysisFallbacks.WithLabelValues(reason).Inc()
}

// RecordInactivationRun counts one bulk inactivation run and its results
func RecordInactivationRun(trigger, status string, transitioned, failed int) {
	automationRuns.WithLabelValues(trigger, status).Inc()
	clientsInactivated.Add(float64(transitioned))
	inactivationFailures.Add(float64(failed))
}

// Middleware records request count and latency per route
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the Prometheus registry
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
