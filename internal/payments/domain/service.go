package domain

import (
	"context"

	"github.com/innovatun/console/internal/records"
)

type ListPaymentsRequest struct {
	Query     string `form:"q"`
	Customer  string `form:"customer"`
	Status    string `form:"status"`
	DateRange string `form:"date_range"`
}

type ListPaymentsResponse struct {
	Source   string                  `json:"source"`
	Payments []records.PaymentRecord `json:"payments"`
	Stats    records.PaymentStats    `json:"stats"`
}

type ExportResponse struct {
	Filename string
	Content  []byte
}

type Service interface {
	List(context.Context, ListPaymentsRequest) (ListPaymentsResponse, error)
	Export(context.Context, ListPaymentsRequest) (ExportResponse, error)
}
