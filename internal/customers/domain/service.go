package domain

import (
	"context"

	"github.com/innovatun/console/internal/records"
)

type ListCustomersRequest struct {
	Query  string `form:"q"`
	Status string `form:"status"`
	Plan   string `form:"plan"`
}

type ListCustomersResponse struct {
	Source    string                   `json:"source"`
	Customers []records.CustomerRecord `json:"customers"`
}

type ExportResponse struct {
	Filename string
	Content  []byte
}

type Service interface {
	List(context.Context, ListCustomersRequest) (ListCustomersResponse, error)
	Export(context.Context, ListCustomersRequest) (ExportResponse, error)
}
