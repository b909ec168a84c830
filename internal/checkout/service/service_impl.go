package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/clock"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/observability/metrics"
	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/internal/upstream"
	"github.com/innovatun/console/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const subscriptionPeriod = 30 * 24 * time.Hour

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Holder   *config.ConsoleConfigHolder
	Repo     domain.Repository
	Upstream upstream.Client
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	holder   *config.ConsoleConfigHolder
	repo     domain.Repository
	upstream upstream.Client
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("checkout.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		holder:   p.Holder,
		repo:     p.Repo,
		upstream: p.Upstream,
		metrics:  p.Metrics,
	}
}

// Success records one completed checkout. The subscription is posted to the
// upstream API; when that fails the row lands in the local store with
// synced=false and a later sweep re-posts it.
func (s *Service) Success(ctx context.Context, req domain.SuccessRequest) (domain.SuccessResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.SuccessResponse{}, domain.ErrInvalidEmail
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return domain.SuccessResponse{}, domain.ErrInvalidSession
	}

	plan := strings.TrimSpace(req.Plan)
	amount := req.Amount
	if plan == "" || amount == 0 {
		if session, err := s.upstream.SessionData(ctx, sessionID); err == nil {
			if plan == "" {
				plan = session.First("plan", "planName", "product")
			}
			if amount == 0 {
				if cents, ok := session.FirstValue("amount_total"); ok {
					amount = records.ParseAmount(cents) / 100
				}
			}
		}
	}

	now := s.clock.Now().UTC()
	sub := domain.LocalSubscription{
		ID:          s.genID.Generate(),
		Email:       email,
		Name:        strings.TrimSpace(req.Name),
		Plan:        plan,
		Amount:      amount,
		Currency:    records.DefaultCurrency,
		Status:      "active",
		SessionID:   sessionID,
		PeriodStart: now,
		PeriodEnd:   now.Add(subscriptionPeriod),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	payload := subscriptionPayload(&sub)
	sub.Payload = datatypes.JSONMap(payload)

	resp := domain.SuccessResponse{Subscription: toSubscriptionRecord(&sub)}

	if err := s.upstream.CreateSubscription(ctx, payload); err != nil {
		s.log.Warn("checkout post failed, storing locally",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		if insertErr := s.repo.Insert(ctx, s.db, &sub); insertErr != nil {
			return domain.SuccessResponse{}, insertErr
		}
		resp.Stored = domain.StoredLocal
		return resp, nil
	}

	resp.Stored = domain.StoredUpstream
	return resp, nil
}

// Sweep re-posts unsynced local rows and prunes everything that made it
// upstream.
func (s *Service) Sweep(ctx context.Context) (domain.SweepResponse, error) {
	batch := s.holder.Get().Refresh.SweepBatchSize
	rows, err := s.repo.ListUnsynced(ctx, s.db, batch)
	if err != nil {
		return domain.SweepResponse{}, err
	}

	resp := domain.SweepResponse{Attempted: len(rows)}
	for _, row := range rows {
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}
		// Rows written before the payload column carry an empty map.
		payload := map[string]any(row.Payload)
		if len(payload) == 0 {
			payload = subscriptionPayload(row)
		}
		if err := s.upstream.CreateSubscription(ctx, payload); err != nil {
			s.log.Debug("sweep post failed", zap.String("session_id", row.SessionID), zap.Error(err))
			continue
		}
		if err := s.repo.MarkSynced(ctx, s.db, row.ID, s.clock.Now().UTC()); err != nil {
			return resp, err
		}
		resp.Synced++
	}

	pruned, err := s.repo.PruneSynced(ctx, s.db)
	if err != nil {
		return resp, err
	}
	resp.Pruned = pruned
	s.metrics.RecordSweepRows(ctx, "synced", resp.Synced)

	return resp, nil
}

// ListByEmail serves the billing fallback path.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]records.SubscriptionRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	rows, err := s.repo.ListByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	subs := make([]records.SubscriptionRecord, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, toSubscriptionRecord(row))
	}
	return subs, nil
}

func (s *Service) ListLocal(ctx context.Context, req domain.ListLocalRequest) (domain.ListLocalResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListLocalResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(sub *domain.LocalSubscription) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        sub.ID.String(),
			CreatedAt: sub.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	subs := make([]domain.LocalSubscription, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subs = append(subs, *item)
	}

	resp := domain.ListLocalResponse{Subscriptions: subs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func toSubscriptionRecord(sub *domain.LocalSubscription) records.SubscriptionRecord {
	end := sub.PeriodEnd.Format("2006-01-02")
	return records.SubscriptionRecord{
		ID:              sub.ID.String(),
		CustomerEmail:   sub.Email,
		CustomerName:    sub.Name,
		Plan:            sub.Plan,
		Status:          sub.Status,
		Amount:          sub.Amount,
		Currency:        sub.Currency,
		StartDate:       sub.PeriodStart.Format("2006-01-02"),
		EndDate:         &end,
		NextBillingDate: &end,
		CreatedAt:       sub.CreatedAt.Format("2006-01-02"),
		SessionID:       sub.SessionID,
	}
}

func subscriptionPayload(sub *domain.LocalSubscription) map[string]any {
	return map[string]any{
		"email":              sub.Email,
		"name":               sub.Name,
		"plan":               sub.Plan,
		"amount":             sub.Amount,
		"currency":           sub.Currency,
		"status":             sub.Status,
		"sessionId":          sub.SessionID,
		"currentPeriodStart": sub.PeriodStart.Format(time.RFC3339),
		"currentPeriodEnd":   sub.PeriodEnd.Format(time.RFC3339),
		"createdAt":          sub.CreatedAt.Format(time.RFC3339),
	}
}
