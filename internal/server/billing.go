package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	billingdashboarddomain "github.com/innovatun/console/internal/billingdashboard/domain"
)

func (s *Server) GetBilling(c *gin.Context) {
	resp, err := s.billingDashboardSvc.Billing(c.Request.Context(), billingdashboarddomain.BillingRequest{
		Email: strings.TrimSpace(c.Param("email")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoicePDF(c *gin.Context) {
	req := billingdashboarddomain.DocumentRequest{
		Email:     strings.TrimSpace(c.Param("email")),
		SessionID: strings.TrimSpace(c.Param("session_id")),
	}

	doc, record, err := s.billingDashboardSvc.Invoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc, record.InvoiceNumber)
}

func (s *Server) GetReceiptPDF(c *gin.Context) {
	req := billingdashboarddomain.DocumentRequest{
		Email:     strings.TrimSpace(c.Param("email")),
		SessionID: strings.TrimSpace(c.Param("session_id")),
	}

	doc, record, err := s.billingDashboardSvc.Receipt(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc, record.ReceiptNumber)
}

func writePDF(c *gin.Context, doc io.Reader, name string) {
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
