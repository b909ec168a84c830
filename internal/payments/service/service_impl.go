package service

import (
	"context"

	"github.com/innovatun/console/internal/cache"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/export"
	"github.com/innovatun/console/internal/observability/metrics"
	"github.com/innovatun/console/internal/payments/domain"
	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/internal/upstream"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Upstream   upstream.Client
	Cache      *cache.SnapshotCache
	Normalizer *records.Normalizer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	upstream   upstream.Client
	cache      *cache.SnapshotCache
	normalizer *records.Normalizer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("payments.service"),
		clock:      p.Clock,
		upstream:   p.Upstream,
		cache:      p.Cache,
		normalizer: p.Normalizer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentsRequest) (domain.ListPaymentsResponse, error) {
	raw, source := s.fetch(ctx)

	rows := s.normalizer.Payments(raw)
	s.metrics.RecordNormalized(ctx, "payments", len(rows))

	filtered := records.FilterPayments(rows, records.PaymentFilter{
		Query:     req.Query,
		Customer:  req.Customer,
		Status:    req.Status,
		DateRange: req.DateRange,
	}, s.clock.Now())

	return domain.ListPaymentsResponse{
		Source:   source,
		Payments: filtered,
		Stats:    records.SummarizePayments(filtered),
	}, nil
}

func (s *Service) Export(ctx context.Context, req domain.ListPaymentsRequest) (domain.ExportResponse, error) {
	resp, err := s.List(ctx, req)
	if err != nil {
		return domain.ExportResponse{}, err
	}
	s.metrics.RecordCSVExport(ctx, "payments")
	return domain.ExportResponse{
		Filename: export.Filename("payments", s.clock.Now()),
		Content:  export.Payments(resp.Payments),
	}, nil
}

// fetch serves the subscriptions collection upstream-first. A successful
// fetch refreshes the snapshot; a failed one falls back to it.
func (s *Service) fetch(ctx context.Context) ([]records.RawRecord, string) {
	raw, err := s.upstream.Subscriptions(ctx)
	if err == nil {
		if storeErr := s.cache.Store(ctx, cache.CollectionSubscriptions, raw); storeErr != nil {
			s.log.Debug("snapshot refresh failed", zap.Error(storeErr))
		}
		return raw, records.SourceUpstream
	}
	s.log.Warn("upstream subscriptions fetch failed", zap.Error(err))

	if cached, ok := s.cache.Load(ctx, cache.CollectionSubscriptions); ok {
		s.metrics.RecordFallbackRead(ctx, records.SourceCache)
		return cached, records.SourceCache
	}
	return nil, records.SourceNone
}
