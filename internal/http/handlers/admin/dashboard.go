package admin

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns headline numbers for the admin home
// screen.
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	overview, err := h.DashboardService.Overview(days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, overview)
}

// GetDashboardTopProducts returns the best sellers of the period.
func (h *Handler) GetDashboardTopProducts(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	top, err := h.DashboardService.TopProducts(days, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, top)
}

// GetDashboardTrends returns per-day order and revenue series.
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	trends, err := h.DashboardService.Trends(days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, trends)
}
