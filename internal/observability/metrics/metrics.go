package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	leadsSubmitted          metric.Int64Counter
	configurationsSubmitted metric.Int64Counter
	documentsRendered       metric.Int64Counter
	documentRenderDuration  metric.Float64Histogram
	uploadsStored           metric.Int64Counter
	uploadBytes             metric.Int64Counter
	rateLimitDecisions      metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "homestead"
	}
	meter := provider.Meter(name)

	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		opts []metric.Int64CounterOption
	}{
		{&m.leadsSubmitted, "homestead_leads_submitted_total", nil},
		{&m.configurationsSubmitted, "homestead_configurations_submitted_total", nil},
		{&m.documentsRendered, "homestead_documents_rendered_total", nil},
		{&m.uploadsStored, "homestead_uploads_stored_total", nil},
		{&m.uploadBytes, "homestead_upload_bytes_total", []metric.Int64CounterOption{metric.WithUnit("By")}},
		{&m.rateLimitDecisions, "homestead_rate_limit_decisions_total", nil},
	}

	var errs []error
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, c.opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		*c.dst = counter
	}
	hist, err := meter.Float64Histogram("homestead_document_render_seconds", metric.WithUnit("s"))
	if err != nil {
		errs = append(errs, err)
	}
	m.documentRenderDuration = hist

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func attrs(kv ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(FilterAttributes(kv...)...)
}

func (m *Metrics) RecordLeadSubmitted(ctx context.Context, interest string) {
	if m == nil {
		return
	}
	m.leadsSubmitted.Add(ctx, 1, attrs(attribute.String("interest", strings.TrimSpace(interest))))
}

func (m *Metrics) RecordConfigurationSubmitted(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.configurationsSubmitted.Add(ctx, 1, attrs(attribute.String("status", strings.TrimSpace(status))))
}

// RecordDocumentRendered counts generated PDFs and their render time,
// labelled by document kind and outcome.
func (m *Metrics) RecordDocumentRendered(ctx context.Context, kind string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	opt := attrs(
		attribute.String("document", strings.TrimSpace(kind)),
		attribute.String("outcome", outcome(err == nil, "ok", "error")),
	)
	m.documentsRendered.Add(ctx, 1, opt)
	m.documentRenderDuration.Record(ctx, elapsed.Seconds(), opt)
}

func (m *Metrics) RecordUpload(ctx context.Context, kind string, size int64) {
	if m == nil {
		return
	}
	opt := attrs(attribute.String("upload_kind", strings.TrimSpace(kind)))
	m.uploadsStored.Add(ctx, 1, opt)
	if size > 0 {
		m.uploadBytes.Add(ctx, size, opt)
	}
}

func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	m.recordRateLimit(ctx, endpoint, "allowed", "")
}

// RecordRateLimitDenied counts a rejected submission; reason is "bucket" or
// "duplicate".
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	m.recordRateLimit(ctx, endpoint, "denied", reason)
}

func (m *Metrics) recordRateLimit(ctx context.Context, endpoint, result, reason string) {
	if m == nil {
		return
	}
	kv := []attribute.KeyValue{
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("outcome", result),
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		kv = append(kv, attribute.String("reason", reason))
	}
	m.rateLimitDecisions.Add(ctx, 1, attrs(kv...))
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
	"status":      {},
	"interest":    {},
	"document":    {},
	"outcome":     {},
	"upload_kind": {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
