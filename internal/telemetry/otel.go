package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/21haoxingxiu/core/internal/config"
)

// Version is stamped at build time with -ldflags "-X .../telemetry.Version=...".
var Version = "dev"

type ShutdownFunc func(context.Context) error

// Init installs the global tracer provider and propagator. Without an OTLP
// endpoint tracing stays disabled and the returned shutdown is a no-op.
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	target, err := parseEndpoint(cfg.OTLPEndpoint, cfg.OTLPInsecure)
	if err != nil {
		return nil, err
	}

	options := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target.host)}
	if target.insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.OTELServiceName),
			semconv.ServiceVersionKey.String(Version),
			semconv.ServiceInstanceIDKey.String(strconv.Itoa(cfg.WorkerID)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return provider.Shutdown, nil
}

type endpoint struct {
	host     string
	insecure bool
}

// parseEndpoint accepts host:port or a URL. A URL scheme decides transport
// security; a bare host:port falls back to the configured flag.
func parseEndpoint(raw string, insecure bool) (endpoint, error) {
	if !strings.Contains(raw, "://") {
		return endpoint{host: raw, insecure: insecure}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, err
	}
	if u.Host == "" {
		return endpoint{}, fmt.Errorf("invalid OTLP endpoint: %s", raw)
	}
	switch u.Scheme {
	case "http":
		return endpoint{host: u.Host, insecure: true}, nil
	case "https":
		return endpoint{host: u.Host, insecure: false}, nil
	default:
		return endpoint{}, fmt.Errorf("unsupported OTLP scheme %q", u.Scheme)
	}
}
