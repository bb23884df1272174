package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter instruments and tracer used
// by the lead pipeline. A zero value is safe to use and records nothing.
type Observability struct {
	meterProvider    *metric.MeterProvider
	tracer           trace.Tracer
	leadCounter      otelmetric.Int64Counter
	dispatchDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	obs := &Observability{tracer: otel.Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	leadCounter, _ := meter.Int64Counter(
		"leads.processed",
		otelmetric.WithDescription("Number of call reports processed by outcome"),
	)

	dispatchDuration, _ := meter.Float64Histogram(
		"leads.dispatch.duration",
		otelmetric.WithDescription("Dossier dispatch duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.leadCounter = leadCounter
	obs.dispatchDuration = dispatchDuration
	return obs
}

// StartSpan opens a span on the service tracer. Without a configured
// TracerProvider the span is a no-op.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("lead-dispatcher")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordLeadProcessed(ctx context.Context, status, reason, category string) {
	if o.leadCounter != nil {
		o.leadCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
			attribute.String("reason", reason),
			attribute.String("category", category),
		))
	}
}

func (o *Observability) RecordDispatchDuration(ctx context.Context, duration time.Duration, status string) {
	if o.dispatchDuration != nil {
		o.dispatchDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
