package observability

import (
	"github.com/smallbiznis/homestead/internal/observability/logger"
	"github.com/smallbiznis/homestead/internal/observability/metrics"
	"github.com/smallbiznis/homestead/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.logger,
		logger.New,
		Config.tracing,
		tracing.NewProvider,
		Config.metrics,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// Force the tracer provider so the global propagator is installed even
	// when nothing else asks for it.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func (c Config) logger() logger.Config {
	debug := c.Debug()
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.Telemetry.LogLevel,
		Format:              c.Telemetry.LogFormat,
		Debug:               debug,
		IncludeCaller:       true,
		IncludeStackOnError: debug,
	}
}

func (c Config) tracing() tracing.Config {
	t := c.Telemetry
	return tracing.Config{
		Enabled:          t.Enabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: t.Endpoint,
		ExporterProtocol: t.Protocol,
		SamplingRatio:    t.SamplingRatio,
	}
}

func (c Config) metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.Telemetry.Enabled,
		ExporterEndpoint: c.Telemetry.Endpoint,
		ExporterProtocol: c.Telemetry.Protocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}
