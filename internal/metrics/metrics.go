// Package metrics defines the Prometheus metrics exported on /metrics.
// All collectors are registered with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clients_api"

// HTTPRequestsTotal counts handled requests.
// Labels: method, route (gin full path, "unmatched" for 404s), status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// PhotoUploadsTotal counts photo uploads.
// Label result: "stored", "empty" or "failed".
var PhotoUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_uploads_total",
		Help:      "Total number of client photo uploads by result.",
	},
	[]string{"result"},
)

// PhotoBytesStored counts bytes of accepted photo uploads.
var PhotoBytesStored = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_bytes_stored_total",
		Help:      "Total bytes of client photos written to the uploads directory.",
	},
)
