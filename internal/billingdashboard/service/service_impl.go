package service

import (
	"context"
	"io"
	"strings"

	"github.com/innovatun/console/internal/billing"
	"github.com/innovatun/console/internal/billingdashboard/domain"
	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/observability/metrics"
	"github.com/innovatun/console/internal/providers/pdf"
	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/internal/upstream"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Upstream   upstream.Client
	Normalizer *records.Normalizer
	Checkout   checkoutdomain.Service
	PDF        pdf.Provider
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	upstream   upstream.Client
	normalizer *records.Normalizer
	checkout   checkoutdomain.Service
	pdf        pdf.Provider
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("billingdashboard.service"),
		upstream:   p.Upstream,
		normalizer: p.Normalizer,
		checkout:   p.Checkout,
		pdf:        p.PDF,
		metrics:    p.Metrics,
	}
}

// Billing derives the subscriber's billing rows, upstream-first with the
// local checkout store as fallback. A dead upstream and an empty local
// store yield source "none" with no rows, never an error.
func (s *Service) Billing(ctx context.Context, req domain.BillingRequest) (domain.BillingResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.BillingResponse{}, domain.ErrInvalidEmail
	}

	raw, err := s.upstream.SubscriptionsByEmail(ctx, email)
	if err == nil {
		subs := s.normalizer.Subscriptions(raw)
		s.metrics.RecordNormalized(ctx, "subscriptions", len(subs))
		return domain.BillingResponse{
			Source:  records.SourceUpstream,
			Records: billing.DeriveAll(subs),
		}, nil
	}
	s.log.Warn("upstream billing fetch failed", zap.String("email", email), zap.Error(err))

	local, localErr := s.checkout.ListByEmail(ctx, email)
	if localErr != nil {
		return domain.BillingResponse{}, localErr
	}
	if len(local) == 0 {
		return domain.BillingResponse{
			Source:  records.SourceNone,
			Records: []billing.Record{},
		}, nil
	}

	s.metrics.RecordFallbackRead(ctx, records.SourceLocal)
	return domain.BillingResponse{
		Source:  records.SourceLocal,
		Records: billing.DeriveAll(local),
	}, nil
}

func (s *Service) Invoice(ctx context.Context, req domain.DocumentRequest) (io.Reader, billing.Record, error) {
	row, err := s.findRecord(ctx, req)
	if err != nil {
		return nil, billing.Record{}, err
	}
	doc, err := s.pdf.GenerateInvoice(ctx, row)
	if err != nil {
		return nil, billing.Record{}, err
	}
	return doc, row, nil
}

func (s *Service) Receipt(ctx context.Context, req domain.DocumentRequest) (io.Reader, billing.Record, error) {
	row, err := s.findRecord(ctx, req)
	if err != nil {
		return nil, billing.Record{}, err
	}
	doc, err := s.pdf.GenerateReceipt(ctx, row)
	if err != nil {
		return nil, billing.Record{}, err
	}
	return doc, row, nil
}

func (s *Service) findRecord(ctx context.Context, req domain.DocumentRequest) (billing.Record, error) {
	resp, err := s.Billing(ctx, domain.BillingRequest{Email: req.Email})
	if err != nil {
		return billing.Record{}, err
	}
	sessionID := strings.TrimSpace(req.SessionID)
	for _, row := range resp.Records {
		if row.SessionID == sessionID || row.ID == sessionID {
			return row, nil
		}
	}
	return billing.Record{}, domain.ErrDocumentNotFound
}
