package service

import (
	"context"

	"github.com/innovatun/console/internal/cache"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/customers/domain"
	"github.com/innovatun/console/internal/export"
	"github.com/innovatun/console/internal/observability/metrics"
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
		log:        p.Log.Named("customers.service"),
		clock:      p.Clock,
		upstream:   p.Upstream,
		cache:      p.Cache,
		normalizer: p.Normalizer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListCustomersRequest) (domain.ListCustomersResponse, error) {
	raw, source := s.fetch(ctx)

	rows := s.normalizer.Customers(raw)
	s.metrics.RecordNormalized(ctx, "customers", len(rows))

	filtered := records.FilterCustomers(rows, records.CustomerFilter{
		Query:  req.Query,
		Status: req.Status,
		Plan:   req.Plan,
	})

	return domain.ListCustomersResponse{
		Source:    source,
		Customers: filtered,
	}, nil
}

func (s *Service) Export(ctx context.Context, req domain.ListCustomersRequest) (domain.ExportResponse, error) {
	resp, err := s.List(ctx, req)
	if err != nil {
		return domain.ExportResponse{}, err
	}
	s.metrics.RecordCSVExport(ctx, "customers")
	return domain.ExportResponse{
		Filename: export.Filename("customers", s.clock.Now()),
		Content:  export.Customers(resp.Customers),
	}, nil
}

func (s *Service) fetch(ctx context.Context) ([]records.RawRecord, string) {
	raw, err := s.upstream.Customers(ctx)
	if err == nil {
		if storeErr := s.cache.Store(ctx, cache.CollectionCustomers, raw); storeErr != nil {
			s.log.Debug("snapshot refresh failed", zap.Error(storeErr))
		}
		return raw, records.SourceUpstream
	}
	s.log.Warn("upstream customers fetch failed", zap.Error(err))

	if cached, ok := s.cache.Load(ctx, cache.CollectionCustomers); ok {
		s.metrics.RecordFallbackRead(ctx, records.SourceCache)
		return cached, records.SourceCache
	}
	return nil, records.SourceNone
}
