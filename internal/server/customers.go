package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customersdomain "github.com/innovatun/console/internal/customers/domain"
)

func (s *Server) ListCustomers(c *gin.Context) {
	var req customersdomain.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customersSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportCustomers(c *gin.Context) {
	var req customersdomain.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customersSvc.Export(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+resp.Filename+`"`)
	c.Data(http.StatusOK, "text/csv", resp.Content)
}
