// Package observe provides application-wide observability primitives for
// Parodist: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Parodist metrics.
const meterName = "github.com/verseforge/parodist"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// CompleterDuration tracks a single completer call's latency, for any
	// stage (initial generation or a refinement pass).
	CompleterDuration metric.Float64Histogram

	// LineDuration tracks the end-to-end latency of generating a single
	// output line, including every refinement pass attempted for it.
	LineDuration metric.Float64Histogram

	// ToolExecutionDuration tracks MCP tool execution latency.
	ToolExecutionDuration metric.Float64Histogram

	// --- Counters ---

	// CompleterRequests counts completer calls. Use with attributes:
	//   attribute.String("backend", ...), attribute.String("stage", ...), attribute.String("status", ...)
	CompleterRequests metric.Int64Counter

	// LinesGenerated counts output lines produced, by outcome. Use with
	// attribute: attribute.String("status", "accepted"|"blank").
	LinesGenerated metric.Int64Counter

	// RefinementRejections counts refinement proposals rejected by
	// validation. Use with attributes:
	//   attribute.String("pass", "word_syllable"|"coherence"|"punctuation"),
	//   attribute.String("reason", "syllable_deviation"|"pattern_mismatch")
	RefinementRejections metric.Int64Counter

	// ToolCalls counts tool invocations. Use with attributes:
	//   attribute.String("tool", ...), attribute.String("status", ...)
	ToolCalls metric.Int64Counter

	// --- Error counters ---

	// CompleterErrors counts completer errors. Use with attributes:
	//   attribute.String("backend", ...), attribute.String("kind", ...)
	CompleterErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveGenerations tracks the number of in-flight [parody.Engine.Generate] runs.
	ActiveGenerations metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for LLM completion latencies.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.CompleterDuration, err = m.Float64Histogram("parodist.completer.duration",
		metric.WithDescription("Latency of a single completer call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LineDuration, err = m.Float64Histogram("parodist.line.duration",
		metric.WithDescription("End-to-end latency of generating one output line."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ToolExecutionDuration, err = m.Float64Histogram("parodist.tool_execution.duration",
		metric.WithDescription("Latency of MCP tool execution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.CompleterRequests, err = m.Int64Counter("parodist.completer.requests",
		metric.WithDescription("Total completer calls by backend, stage, and status."),
	); err != nil {
		return nil, err
	}
	if met.LinesGenerated, err = m.Int64Counter("parodist.lines.generated",
		metric.WithDescription("Total output lines produced by status."),
	); err != nil {
		return nil, err
	}
	if met.RefinementRejections, err = m.Int64Counter("parodist.refinement.rejections",
		metric.WithDescription("Total refinement proposals rejected by validation, by pass and reason."),
	); err != nil {
		return nil, err
	}
	if met.ToolCalls, err = m.Int64Counter("parodist.tool.calls",
		metric.WithDescription("Total MCP tool invocations by tool name and status."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.CompleterErrors, err = m.Int64Counter("parodist.completer.errors",
		metric.WithDescription("Total completer errors by backend and kind."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveGenerations, err = m.Int64UpDownCounter("parodist.active_generations",
		metric.WithDescription("Number of in-flight parody generation runs."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("parodist.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCompleterRequest is a convenience method that records a completer
// request counter increment with the standard attribute set.
func (m *Metrics) RecordCompleterRequest(ctx context.Context, backend, stage, status string) {
	m.CompleterRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("stage", stage),
			attribute.String("status", status),
		),
	)
}

// RecordLineGenerated is a convenience method that records a generated-line
// counter increment.
func (m *Metrics) RecordLineGenerated(ctx context.Context, status string) {
	m.LinesGenerated.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordRefinementRejection is a convenience method that records a
// refinement-rejection counter increment.
func (m *Metrics) RecordRefinementRejection(ctx context.Context, pass, reason string) {
	m.RefinementRejections.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("pass", pass),
			attribute.String("reason", reason),
		),
	)
}

// RecordToolCall is a convenience method that records a tool call counter
// increment with the standard attribute set.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	m.ToolCalls.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("status", status),
		),
	)
}

// RecordCompleterError is a convenience method that records a completer
// error counter increment.
func (m *Metrics) RecordCompleterError(ctx context.Context, backend, kind string) {
	m.CompleterErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("kind", kind),
		),
	)
}
