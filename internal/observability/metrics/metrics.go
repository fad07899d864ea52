// Package metrics exposes the engine's prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// EngineMetrics counts the calculation engine's business events.
type EngineMetrics struct {
	calculations prometheus.Counter
	creates      prometheus.Counter
	transfers    prometheus.Counter
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		calculations: factory.NewCounter(prometheus.CounterOpts{
			Name: "contribution_calculations_total",
			Help: "Contribution calculations started.",
		}),
		creates: factory.NewCounter(prometheus.CounterOpts{
			Name: "contributions_created_total",
			Help: "Contribution records created or superseded.",
		}),
		transfers: factory.NewCounter(prometheus.CounterOpts{
			Name: "contribution_transfers_requested_total",
			Help: "Contributions flagged for early transfer.",
		}),
	}
}

func (m *EngineMetrics) CalculationStarted() {
	if m == nil {
		return
	}
	m.calculations.Inc()
}

func (m *EngineMetrics) ContributionCreated() {
	if m == nil {
		return
	}
	m.creates.Inc()
}

func (m *EngineMetrics) TransferRequested() {
	if m == nil {
		return
	}
	m.transfers.Inc()
}

// HTTPMetrics instruments the gin router.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Middleware records every request against its route template.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func newRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func asRegisterer(reg *prometheus.Registry) prometheus.Registerer { return reg }

func asGatherer(reg *prometheus.Registry) prometheus.Gatherer { return reg }

// Module wires the prometheus registry and instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(
		newRegistry,
		asRegisterer,
		asGatherer,
		NewEngineMetrics,
		NewHTTPMetrics,
	),
)
