// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsTotal counts inbound events by outcome
	// (success, ignored, skipped, rejected).
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_webhook_events_total",
			Help: "Total number of webhook events received by outcome",
		},
		[]string{"outcome", "reason"},
	)

	LeadsClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_leads_classified_total",
			Help: "Total number of accepted leads by category",
		},
		[]string{"category"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatcher_dispatch_duration_seconds",
			Help:    "Duration of notification sends in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	DispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_dispatch_failures_total",
			Help: "Total number of failed notification sends",
		},
		[]string{"provider"},
	)

	SchemaViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_structured_output_schema_violations_total",
			Help: "Structured outputs that did not match the dossier schema",
		},
	)
)
