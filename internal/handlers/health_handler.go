package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chartkeep/internal/services"
)

// HealthHandler serves derived account health scores and insights.
type HealthHandler struct {
	healthService services.HealthServicer
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService services.HealthServicer) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// GetAccountHealth returns the health score of every account.
func (h *HealthHandler) GetAccountHealth(c *gin.Context) {
	scores, err := h.healthService.ScoreAll()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"health": scores})
}

// GetInsights returns the portfolio-level observation list.
func (h *HealthHandler) GetInsights(c *gin.Context) {
	insights, err := h.healthService.Insights()
	if err != nil {
		respondWithError(c, err)
		return
	}
	if insights == nil {
		insights = []services.Insight{}
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
