// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_received_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"outcome"},
	)

	WebhookDocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_documents_processed_total",
			Help: "Total number of documents dispatched from webhook events",
		},
		[]string{"document_type", "operation", "status"},
	)

	NotificationWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_writes_total",
			Help: "Total number of notification documents written during fan-out",
		},
		[]string{"status"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "search_request_duration_seconds",
			Help: "Duration of search request handling in seconds",
		},
		[]string{"outcome"},
	)

	AccountRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_requests_total",
			Help: "Total number of account flow requests",
		},
		[]string{"flow", "outcome"},
	)
)
