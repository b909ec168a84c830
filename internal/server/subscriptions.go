package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionsdomain "github.com/innovatun/console/internal/subscriptions/domain"
)

func (s *Server) ListSubscriptions(c *gin.Context) {
	var req subscriptionsdomain.ListSubscriptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionsSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
