package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/pkg/db/pagination"
)

func (s *Server) CheckoutSuccess(c *gin.Context) {
	var req checkoutdomain.SuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.checkoutSvc.Success(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CheckoutSweep(c *gin.Context) {
	resp, err := s.checkoutSvc.Sweep(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLocalCheckouts(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.checkoutSvc.ListLocal(c.Request.Context(), checkoutdomain.ListLocalRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
