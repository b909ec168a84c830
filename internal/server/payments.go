package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentsdomain "github.com/innovatun/console/internal/payments/domain"
)

func (s *Server) ListPayments(c *gin.Context) {
	var req paymentsdomain.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentsSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportPayments(c *gin.Context) {
	var req paymentsdomain.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentsSvc.Export(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+resp.Filename+`"`)
	c.Data(http.StatusOK, "text/csv", resp.Content)
}
