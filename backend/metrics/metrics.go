package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the back-office collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Calls made to the backend of record.",
		},
		[]string{"method", "route", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls to the backend of record.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "route"},
	)

	workflowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Workflow state transitions.",
		},
		[]string{"entity", "event", "to"},
	)

	workflowOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "workflow",
			Name:      "outcomes_total",
			Help:      "Workflow outcomes delivered to the view.",
		},
		[]string{"entity", "kind"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "backoffice",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Open técnico sessions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		gatewayCalls,
		gatewayDuration,
		workflowTransitions,
		workflowOutcomes,
		activeSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordGatewayCall records one backend call. route is the path template,
// never the concrete URL.
func RecordGatewayCall(method, route, outcome string, d time.Duration) {
	gatewayCalls.WithLabelValues(method, route, outcome).Inc()
	gatewayDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordTransition counts a workflow state change.
func RecordTransition(entity, event, to string) {
	workflowTransitions.WithLabelValues(entity, event, to).Inc()
}

// RecordOutcome counts a workflow outcome.
func RecordOutcome(entity, kind string) {
	workflowOutcomes.WithLabelValues(entity, kind).Inc()
}

// SessionOpened and SessionClosed track the session gauge.
func SessionOpened() { activeSessions.Inc() }

func SessionClosed() { activeSessions.Dec() }
