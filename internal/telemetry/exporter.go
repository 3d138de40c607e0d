// Package telemetry records dashboard fetch and build metrics through
// OpenTelemetry and ships them to an OTLP collector over gRPC.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"expensedash/internal/dashboard"
	"expensedash/internal/expenseapi"
)

const (
	defaultServiceName = "expensedash"
	serviceVersion     = "1.0.0"
	meterName          = "expensedash/dashboard"
)

// Recorder is a dashboard.Metrics backed by an OTel meter provider.
type Recorder struct {
	provider      *sdkmetric.MeterProvider
	fetchTotal    metric.Int64Counter
	fetchErrors   metric.Int64Counter
	fetchDuration metric.Float64Histogram
	buildTotal    metric.Int64Counter
	buildDuration metric.Float64Histogram
}

var _ dashboard.Metrics = (*Recorder)(nil)

// Recorders that can be flushed and shut down.
type Closer interface {
	dashboard.Metrics
	Close(ctx context.Context) error
}

// New returns an OTLP-backed recorder when cfg is enabled and a noop one otherwise.
func New(ctx context.Context, cfg Config) (Closer, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return Noop{}, nil
	}
	return NewExporter(ctx, cfg)
}

// NewExporter creates a recorder exporting through OTLP gRPC. It also
// installs the provider as the global meter provider.
func NewExporter(ctx context.Context, cfg Config) (*Recorder, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	rec, err := NewWithReader(ctx, sdkmetric.NewPeriodicReader(exp), cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(rec.provider)
	return rec, nil
}

// NewWithReader builds a recorder on top of any SDK reader.
func NewWithReader(ctx context.Context, reader sdkmetric.Reader, serviceName string) (*Recorder, error) {
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(meterName)

	r := &Recorder{provider: provider}
	if r.fetchTotal, err = meter.Int64Counter(
		"expensedash_backend_fetches_total",
		metric.WithDescription("Backend summary calls made while building snapshots"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("creating fetch counter: %w", err)
	}
	if r.fetchErrors, err = meter.Int64Counter(
		"expensedash_backend_fetch_errors_total",
		metric.WithDescription("Backend summary calls that failed"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("creating fetch error counter: %w", err)
	}
	if r.fetchDuration, err = meter.Float64Histogram(
		"expensedash_backend_fetch_duration_seconds",
		metric.WithDescription("Backend summary call latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating fetch histogram: %w", err)
	}
	if r.buildTotal, err = meter.Int64Counter(
		"expensedash_snapshot_builds_total",
		metric.WithDescription("Dashboard snapshot fetch cycles"),
		metric.WithUnit("{cycle}"),
	); err != nil {
		return nil, fmt.Errorf("creating build counter: %w", err)
	}
	if r.buildDuration, err = meter.Float64Histogram(
		"expensedash_snapshot_build_duration_seconds",
		metric.WithDescription("Dashboard fetch cycle duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating build histogram: %w", err)
	}
	return r, nil
}

// RecordFetch records one backend call.
func (r *Recorder) RecordFetch(ctx context.Context, endpoint string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome(err)),
	}
	opt := metric.WithAttributes(attrs...)

	r.fetchTotal.Add(ctx, 1, opt)
	r.fetchDuration.Record(ctx, d.Seconds(), opt)
	if err != nil {
		kind := expenseapi.KindOf(err)
		if kind == "" {
			kind = "other"
		}
		r.fetchErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("error_kind", kind),
		))
	}
}

// RecordBuild records one fetch cycle.
func (r *Recorder) RecordBuild(ctx context.Context, d time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("outcome", outcome(err)))
	r.buildTotal.Add(ctx, 1, opt)
	r.buildDuration.Record(ctx, d.Seconds(), opt)
}

// Close shuts down the provider and flushes any pending metrics.
func (r *Recorder) Close(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
