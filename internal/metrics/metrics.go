// Package metrics provides Prometheus metrics for the quote pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequestsTotal counts upstream price fetches by outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream price fetches by outcome",
		},
		[]string{"outcome"},
	)

	// UpstreamLatency is a histogram of upstream fetch duration.
	UpstreamLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Duration of upstream price fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AuditInsertFailures counts audit records that could not be
	// persisted after the response had already been sent.
	AuditInsertFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_insert_failures_total",
			Help: "Audit records lost to a failed insert after the response was sent",
		},
	)

	// HTTPRequestsTotal counts inbound HTTP requests by path and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total inbound HTTP requests by path and status",
		},
		[]string{"path", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamLatency,
		AuditInsertFailures,
		HTTPRequestsTotal,
	)
}

// Handler returns the HTTP handler that exposes all registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
