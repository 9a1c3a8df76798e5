package infra

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/pkg/bininfo"
	"exusiai.dev/sprintsummary/internal/pkg/observability"
)

// Tracing returns a nil provider when tracing is disabled.
func Tracing(lc fx.Lifecycle, conf *appconfig.Config) (*tracesdk.TracerProvider, error) {
	if !conf.TracingEnabled {
		log.Info().
			Str("evt.name", "infra.tracing.disabled").
			Msg("tracing is disabled")
		return nil, nil
	}

	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(observability.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.String("environment", conf.AppContext.Env.String()),
		)),
	}

	for _, name := range conf.TracingExporters {
		exporter, err := newExporter(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

func newExporter(name string) (tracesdk.SpanExporter, error) {
	switch name {
	case "otlp":
		// endpoint and headers follow the OTEL_EXPORTER_OTLP_* environment variables
		return otlptracegrpc.New(context.Background())
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Errorf("infra: tracing: unknown exporter %q", name)
	}
}
