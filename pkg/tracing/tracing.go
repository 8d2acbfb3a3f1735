package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/storefront-labs/storefront-backend/pkg/config"
)

// Provider owns the process tracer provider and its exporter.
type Provider struct {
	tp       *sdktrace.TracerProvider
	res      *resource.Resource
	exporter bool
}

// Setup builds the tracer provider for serviceName and installs it globally
// along with the W3C trace context and baggage propagators. Spans are only
// exported when an OTLP endpoint is configured.
func Setup(ctx context.Context, cfg config.TracingConfig, serviceName string) (*Provider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(cfg.SampleRatio)))),
	}

	exporting := false
	if cfg.Enabled() {
		exporterOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithURLPath(cfg.URLPath),
		}
		if len(cfg.Headers) > 0 {
			exporterOpts = append(exporterOpts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("build otlp trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxQueueSize(2048),
			sdktrace.WithBatchTimeout(5*time.Second),
		))
		exporting = true
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tp: tp, res: res, exporter: exporting}, nil
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p == nil || p.tp == nil {
		return otel.Tracer(name)
	}
	return p.tp.Tracer(name)
}

// Exporting reports whether spans leave the process.
func (p *Provider) Exporting() bool {
	return p != nil && p.exporter
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	var errs error
	errs = multierr.Append(errs, p.tp.ForceFlush(ctx))
	errs = multierr.Append(errs, p.tp.Shutdown(ctx))
	return errs
}

// serviceResource layers service.name over the sdk defaults. The service
// attributes carry no schema URL so the merge adopts whichever schema the
// pinned sdk ships with.
func serviceResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("build tracing resource: %w", err)
	}
	return res, nil
}

func sampleRatio(ratio float64) float64 {
	switch {
	case ratio <= 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}
