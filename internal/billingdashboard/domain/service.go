package domain

import (
	"context"
	"errors"
	"io"

	"github.com/innovatun/console/internal/billing"
)

type BillingRequest struct {
	Email string
}

type BillingResponse struct {
	Source  string           `json:"source"`
	Records []billing.Record `json:"records"`
}

type DocumentRequest struct {
	Email     string
	SessionID string
}

type Service interface {
	Billing(context.Context, BillingRequest) (BillingResponse, error)
	Invoice(context.Context, DocumentRequest) (io.Reader, billing.Record, error)
	Receipt(context.Context, DocumentRequest) (io.Reader, billing.Record, error)
}

var (
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrDocumentNotFound = errors.New("document_not_found")
)
