package service

import (
	"context"

	"github.com/innovatun/console/internal/cache"
	"github.com/innovatun/console/internal/observability/metrics"
	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/internal/subscriptions/domain"
	"github.com/innovatun/console/internal/upstream"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Upstream   upstream.Client
	Cache      *cache.SnapshotCache
	Normalizer *records.Normalizer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	upstream   upstream.Client
	cache      *cache.SnapshotCache
	normalizer *records.Normalizer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("subscriptions.service"),
		upstream:   p.Upstream,
		cache:      p.Cache,
		normalizer: p.Normalizer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListSubscriptionsRequest) (domain.ListSubscriptionsResponse, error) {
	raw, source := s.fetch(ctx)

	rows := s.normalizer.Subscriptions(raw)
	s.metrics.RecordNormalized(ctx, "subscriptions", len(rows))

	filtered := records.FilterSubscriptions(rows, records.SubscriptionFilter{
		Query:  req.Query,
		Status: req.Status,
	})

	return domain.ListSubscriptionsResponse{
		Source:        source,
		Subscriptions: filtered,
		Stats:         records.SummarizeSubscriptions(filtered),
	}, nil
}

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
