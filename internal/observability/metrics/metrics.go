package metrics

import (
	"context"
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
	upstreamFetches   metric.Int64Counter
	fallbackReads     metric.Int64Counter
	recordsNormalized metric.Int64Counter
	csvExports        metric.Int64Counter
	pdfDocuments      metric.Int64Counter
	sweepRows         metric.Int64Counter
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

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
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
		name = "console"
	}
	meter := provider.Meter(name)

	upstreamFetches, err := meter.Int64Counter("console_upstream_fetches_total")
	if err != nil {
		return nil, err
	}
	fallbackReads, err := meter.Int64Counter("console_fallback_reads_total")
	if err != nil {
		return nil, err
	}
	recordsNormalized, err := meter.Int64Counter("console_records_normalized_total")
	if err != nil {
		return nil, err
	}
	csvExports, err := meter.Int64Counter("console_csv_exports_total")
	if err != nil {
		return nil, err
	}
	pdfDocuments, err := meter.Int64Counter("console_pdf_documents_total")
	if err != nil {
		return nil, err
	}
	sweepRows, err := meter.Int64Counter("console_checkout_sweep_rows_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		upstreamFetches:   upstreamFetches,
		fallbackReads:     fallbackReads,
		recordsNormalized: recordsNormalized,
		csvExports:        csvExports,
		pdfDocuments:      pdfDocuments,
		sweepRows:         sweepRows,
	}, nil
}

// RecordUpstreamFetch counts one upstream API call per collection and outcome.
func (m *Metrics) RecordUpstreamFetch(ctx context.Context, collection, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("collection", strings.TrimSpace(collection)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.upstreamFetches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFallbackRead counts reads served by the cache or local store.
func (m *Metrics) RecordFallbackRead(ctx context.Context, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.fallbackReads.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNormalized counts produced records per kind.
func (m *Metrics) RecordNormalized(ctx context.Context, kind string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.recordsNormalized.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordCSVExport counts one export per dataset.
func (m *Metrics) RecordCSVExport(ctx context.Context, dataset string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("dataset", strings.TrimSpace(dataset)))
	m.csvExports.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPDFDocument counts one generated document per kind.
func (m *Metrics) RecordPDFDocument(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.pdfDocuments.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSweepRows counts checkout rows re-posted to the upstream.
func (m *Metrics) RecordSweepRows(ctx context.Context, outcome string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.sweepRows.Add(ctx, int64(count), metric.WithAttributes(attrs...))
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
	"collection":  {},
	"outcome":     {},
	"source":      {},
	"kind":        {},
	"dataset":     {},
	"endpoint":    {},
	"status_code": {},
	"method":      {},
	"route":       {},
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
