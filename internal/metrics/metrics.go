// Package metrics holds the catalog service's Prometheus collectors.
//
//	catalog_http_requests_total            counter: requests by method/route/status
//	catalog_http_request_duration_seconds  histogram: latency by method/route
//	catalog_mutations_total                counter: store writes by operation/result
//	catalog_cache_lookups_total            counter: Redis cache lookups by kind/result
//	catalog_rate_limited_total             counter: rejected requests by limiter backend
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts HTTP requests by method, route pattern and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "catalog_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// Mutations counts catalog writes (create, update, patch, delete, seed).
var Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_mutations_total",
	Help: "Catalog store writes by operation and result.",
}, []string{"op", "result"})

// CacheLookups counts read-through cache lookups (list, detail, search).
var CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_cache_lookups_total",
	Help: "Redis cache lookups by kind and result.",
}, []string{"kind", "result"})

// RateLimited counts requests rejected by the rate limiter.
var RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_rate_limited_total",
	Help: "Requests rejected by the rate limiter, by backend.",
}, []string{"backend"})

// Handler returns the Prometheus HTTP handler for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
