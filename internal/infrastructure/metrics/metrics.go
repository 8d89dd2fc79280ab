// Package metrics exposes Prometheus counters for sync runs, upstream calls and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"shopify-mirror/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopify_mirror"

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Collector records service metrics on a Prometheus registry
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	syncRuns        *prometheus.CounterVec
	recordsUpserted *prometheus.CounterVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	mirrorFailures  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Sync runs by entity and result.",
		}, []string{"entity", "result"}),
		recordsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_upserted_total",
			Help:      "Records written to the mirror by successful sync runs.",
		}, []string{"entity"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Shopify Admin API requests by operation and result.",
		}, []string{"operation", "result"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Shopify Admin API latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		mirrorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_write_failures_total",
			Help:      "Upstream creates whose mirror write failed.",
		}, []string{"entity"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.syncRuns,
		c.recordsUpserted,
		c.upstreamCalls,
		c.upstreamLatency,
		c.mirrorFailures,
	)

	return c
}

var _ ports.MetricsRecorder = (*Collector)(nil)

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// RecordSyncRun counts a sync run; successful runs add count to the upserted records
func (c *Collector) RecordSyncRun(entity string, count int, err error) {
	c.syncRuns.WithLabelValues(entity, result(err)).Inc()
	if err == nil {
		c.recordsUpserted.WithLabelValues(entity).Add(float64(count))
	}
}

// RecordUpstreamCall counts a Shopify request and observes its latency
func (c *Collector) RecordUpstreamCall(operation string, duration time.Duration, err error) {
	c.upstreamCalls.WithLabelValues(operation, result(err)).Inc()
	c.upstreamLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMirrorWriteFailure counts a create whose mirror upsert failed
func (c *Collector) RecordMirrorWriteFailure(entity string) {
	c.mirrorFailures.WithLabelValues(entity).Inc()
}

// Middleware records request counts and latency labelled by the matched chi route
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
