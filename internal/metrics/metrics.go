// server/internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workforce_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AttachmentUploads đếm số lần upload theo folder và kết quả (success | failed).
	AttachmentUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_attachment_uploads_total",
		Help: "Attachment uploads to the asset store by folder and outcome.",
	}, []string{"folder", "outcome"})

	AlertsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_alerts_broadcast_total",
		Help: "Alert events pushed to websocket clients.",
	})
)
