package domain

import (
	"context"
	"errors"

	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/pkg/db/pagination"
)

// Where a checkout-success row ended up.
const (
	StoredUpstream = "upstream"
	StoredLocal    = "local"
)

type SuccessRequest struct {
	SessionID string  `json:"session_id" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Name      string  `json:"name"`
	Plan      string  `json:"plan"`
	Amount    float64 `json:"amount"`
}

type SuccessResponse struct {
	Stored       string                     `json:"stored"`
	Subscription records.SubscriptionRecord `json:"subscription"`
}

type SweepResponse struct {
	Attempted int   `json:"attempted"`
	Synced    int   `json:"synced"`
	Pruned    int64 `json:"pruned"`
}

type ListLocalRequest struct {
	PageToken string
	PageSize  int32
}

type ListLocalResponse struct {
	pagination.PageInfo
	Subscriptions []LocalSubscription `json:"subscriptions"`
}

type Service interface {
	Success(context.Context, SuccessRequest) (SuccessResponse, error)
	Sweep(context.Context) (SweepResponse, error)
	ListByEmail(ctx context.Context, email string) ([]records.SubscriptionRecord, error)
	ListLocal(context.Context, ListLocalRequest) (ListLocalResponse, error)
}

var (
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidSession = errors.New("invalid_session")
)
