package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outbound delivery outcomes used as the "outcome" label of the deliveries counter.
const (
	// DeliveryDelivered is a 2xx response from the subscriber.
	DeliveryDelivered = "delivered"
	// DeliveryRejected is a non-2xx response from the subscriber.
	DeliveryRejected = "rejected"
	// DeliveryFailed is a delivery that never produced a response (dial error, timeout).
	DeliveryFailed = "failed"
)

// BusinessMetrics records business operation metrics for the ingestion path, the
// outbound broadcasts and the entity modules behind them.
type BusinessMetrics interface {
	// RecordOperation counts an operation.
	// domain is one of "webhook", "outbound", "payment", "account", "subscription".
	// status is "success", "error", "skipped", "unhandled" and similar low cardinality values.
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordDelivery counts one outbound delivery attempt for event with one of the
	// Delivery* outcomes.
	RecordDelivery(ctx context.Context, event, outcome string)

	// AddInFlight adjusts the number of operations of domain currently running.
	AddInFlight(ctx context.Context, domain string, delta int64)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	deliveryCounter  metric.Int64Counter
	inFlight         metric.Int64UpDownCounter
}

// NewBusinessMetrics creates the OpenTelemetry instruments under namespace (e.g. "webhooks").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	deliveryCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_outbound_deliveries_total", namespace),
		metric.WithDescription("Total number of outbound webhook delivery attempts"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery counter: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_operations_in_flight", namespace),
		metric.WithDescription("Number of business operations currently running"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-flight counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		deliveryCounter:  deliveryCounter,
		inFlight:         inFlight,
	}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDelivery(ctx context.Context, event, outcome string) {
	b.deliveryCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	))
}

func (b *businessMetrics) AddInFlight(ctx context.Context, domain string, delta int64) {
	b.inFlight.Add(ctx, delta, metric.WithAttributes(attribute.String("domain", domain)))
}

// NoOpBusinessMetrics is used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	// No-op
}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}

func (n *NoOpBusinessMetrics) RecordDelivery(ctx context.Context, event, outcome string) {
	// No-op
}

func (n *NoOpBusinessMetrics) AddInFlight(ctx context.Context, domain string, delta int64) {
	// No-op
}
