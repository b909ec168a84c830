package domain

import (
	"context"

	"github.com/innovatun/console/internal/records"
)

type ListSubscriptionsRequest struct {
	Query  string `form:"q"`
	Status string `form:"status"`
}

type ListSubscriptionsResponse struct {
	Source        string                       `json:"source"`
	Subscriptions []records.SubscriptionRecord `json:"subscriptions"`
	Stats         records.SubscriptionStats    `json:"stats"`
}

type Service interface {
	List(context.Context, ListSubscriptionsRequest) (ListSubscriptionsResponse, error)
}
