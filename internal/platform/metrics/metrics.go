package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the HTTP surface and the review pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	stagedRecords   prometheus.Counter
	stagedBatches   prometheus.Counter
	dispositions    *prometheus.CounterVec
	batchItems      *prometheus.CounterVec
	batchDuration   *prometheus.HistogramVec
}

// NewMetrics builds a private registry with the application metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_review_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statement_review_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	stagedRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statement_review_staged_records_total",
		Help: "Pending transactions staged from uploads.",
	})
	stagedBatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statement_review_staged_batches_total",
		Help: "Upload batches staged.",
	})
	dispositions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_review_dispositions_total",
		Help: "Per-record review actions by outcome code.",
	}, []string{"action", "code"})
	batchItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statement_review_batch_items_total",
		Help: "Items processed by batch dispositions, by outcome.",
	}, []string{"action", "outcome"})
	batchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statement_review_batch_duration_seconds",
		Help:    "Wall time of approve-all and reject-all runs.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"action"})
	registry.MustRegister(requests, duration, stagedRecords, stagedBatches, dispositions, batchItems, batchDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		stagedRecords:   stagedRecords,
		stagedBatches:   stagedBatches,
		dispositions:    dispositions,
		batchItems:      batchItems,
		batchDuration:   batchDuration,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// GinMiddleware records request counts and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Registerer exposes the registry for extra collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

func (m *Metrics) ObserveStaged(batches, records int) {
	if m == nil {
		return
	}
	m.stagedBatches.Add(float64(batches))
	m.stagedRecords.Add(float64(records))
}

func (m *Metrics) ObserveDisposition(action domain.ReviewAction, code string) {
	if m == nil {
		return
	}
	m.dispositions.WithLabelValues(string(action), code).Inc()
}

func (m *Metrics) ObserveBatch(action domain.BatchAction, result domain.BatchResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	a := string(action)
	m.batchItems.WithLabelValues(a, "succeeded").Add(float64(len(result.Succeeded)))
	m.batchItems.WithLabelValues(a, "failed").Add(float64(len(result.Failed)))
	m.batchItems.WithLabelValues(a, "skipped").Add(float64(len(result.Skipped)))
	m.batchDuration.WithLabelValues(a).Observe(elapsed.Seconds())
}
