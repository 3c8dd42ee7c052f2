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
)

// Observability records query-run metrics through an OpenTelemetry meter
// exported on the default Prometheus registry. A zero value is a no-op.
type Observability struct {
	meterProvider *metric.MeterProvider
	queryRuns     otelmetric.Int64Counter
	queryDuration otelmetric.Float64Histogram
	resultCount   otelmetric.Int64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	queryRuns, _ := meter.Int64Counter(
		"harvest.queries",
		otelmetric.WithDescription("Number of query runs"),
	)

	queryDuration, _ := meter.Float64Histogram(
		"harvest.query.duration",
		otelmetric.WithDescription("Query run duration"),
		otelmetric.WithUnit("ms"),
	)

	resultCount, _ := meter.Int64Histogram(
		"harvest.query.results",
		otelmetric.WithDescription("Organic results per query"),
	)

	return &Observability{
		meterProvider: provider,
		queryRuns:     queryRuns,
		queryDuration: queryDuration,
		resultCount:   resultCount,
	}
}

// RecordQueryRun records one finished query. status is "success" or an error code.
func (o *Observability) RecordQueryRun(ctx context.Context, status string, duration time.Duration, results int) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.queryRuns != nil {
		o.queryRuns.Add(ctx, 1, attrs)
	}
	if o.queryDuration != nil {
		o.queryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if o.resultCount != nil && status == "success" {
		o.resultCount.Record(ctx, int64(results))
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
