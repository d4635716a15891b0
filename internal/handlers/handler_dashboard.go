package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

// dashboardHandler handles HTTP requests for dashboard counters.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
}

// registerDashboardRoutes registers the dashboard routes.
func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvc) {
	h := &dashboardHandler{dashboardService: dashboardService}

	rg.GET("/dashboard/stats", h.getStats)
}

// getStats godoc
// @Summary Dashboard counters
// @Description Returns application and approval counters for the caller
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *dashboardHandler) getStats(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
