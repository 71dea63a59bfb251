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
)

// Telemetry holds the metric instruments for the download pipeline. All
// record methods are nil-safe so a disabled instance can be passed around
// freely.
type Telemetry struct {
	meterProvider metric.MeterProvider
	meter         metric.Meter

	transferAttemptsTotal metric.Int64Counter
	attemptDuration       metric.Float64Histogram
	bytesDownloaded       metric.Int64Counter
	checksumFailures      metric.Int64Counter
	runsTotal             metric.Int64Counter
	runDuration           metric.Float64Histogram
}

// Config holds telemetry configuration. The OTLP endpoint comes from the
// standard OTEL_EXPORTER_OTLP_* environment variables.
type Config struct {
	Enabled     bool
	ServiceName string
}

// New creates a new telemetry instance. When disabled, every instrument is
// nil and recording is a no-op.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}

	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)

	otel.SetMeterProvider(meterProvider)

	t := &Telemetry{
		meterProvider: meterProvider,
		meter:         otel.Meter(cfg.ServiceName),
	}

	if err := t.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return t, nil
}

// RecordAttempt records the outcome of one transfer attempt.
func (t *Telemetry) RecordAttempt(ctx context.Context, mode, status string, duration time.Duration) {
	if t == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	)

	if t.transferAttemptsTotal != nil {
		t.transferAttemptsTotal.Add(ctx, 1, attrs)
	}

	if t.attemptDuration != nil {
		t.attemptDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordBytes records bytes fetched by a successful attempt.
func (t *Telemetry) RecordBytes(ctx context.Context, mode string, n int64) {
	if t == nil || t.bytesDownloaded == nil {
		return
	}

	t.bytesDownloaded.Add(ctx, n,
		metric.WithAttributes(attribute.String("mode", mode)),
	)
}

// RecordChecksumFailure records a downloaded file that failed verification.
func (t *Telemetry) RecordChecksumFailure(ctx context.Context) {
	if t == nil || t.checksumFailures == nil {
		return
	}

	t.checksumFailures.Add(ctx, 1)
}

// RecordRun records the outcome and duration of a whole pipeline run.
func (t *Telemetry) RecordRun(ctx context.Context, status string, duration time.Duration) {
	if t == nil {
		return
	}

	if t.runsTotal != nil {
		t.runsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", status)),
		)
	}

	if t.runDuration != nil {
		t.runDuration.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("status", status)),
		)
	}
}

// Shutdown flushes pending metrics and shuts down the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		return mp.Shutdown(ctx)
	}

	return nil
}

func (t *Telemetry) initializeMetrics() error {
	var err error

	t.transferAttemptsTotal, err = t.meter.Int64Counter(
		"transfer_attempts_total",
		metric.WithDescription("Total number of file transfer attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer_attempts_total counter: %w", err)
	}

	t.attemptDuration, err = t.meter.Float64Histogram(
		"transfer_attempt_duration_seconds",
		metric.WithDescription("Transfer attempt duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer_attempt_duration histogram: %w", err)
	}

	t.bytesDownloaded, err = t.meter.Int64Counter(
		"bytes_downloaded_total",
		metric.WithDescription("Total number of bytes downloaded"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create bytes_downloaded_total counter: %w", err)
	}

	t.checksumFailures, err = t.meter.Int64Counter(
		"checksum_failures_total",
		metric.WithDescription("Total number of failed checksum verifications"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create checksum_failures_total counter: %w", err)
	}

	t.runsTotal, err = t.meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline_runs_total counter: %w", err)
	}

	t.runDuration, err = t.meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline_run_duration histogram: %w", err)
	}

	return nil
}
