package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

// flowHandler handles HTTP requests related to approval flows.
type flowHandler struct {
	flowService portssvc.ApprovalFlowSvcFacade
	userService portssvc.UserSvcFacade
}

// newFlowHandler creates a new flowHandler.
func newFlowHandler(fs portssvc.ApprovalFlowSvcFacade, us portssvc.UserSvcFacade) *flowHandler {
	return &flowHandler{
		flowService: fs,
		userService: us,
	}
}

// registerFlowRoutes registers all flow-related routes.
func registerFlowRoutes(rg *gin.RouterGroup, flowService portssvc.ApprovalFlowSvcFacade, userService portssvc.UserSvcFacade) {
	h := newFlowHandler(flowService, userService)

	flows := rg.Group("/flows")
	{
		flows.POST("", h.createFlow)                    // Admin only
		flows.GET("", h.listFlows)                      // Admin only
		flows.GET("/:id", h.getFlow)                    // Admin only
		flows.PUT("/:id", h.updateFlow)                 // Admin only
		flows.POST("/:id/deactivate", h.deactivateFlow) // Admin only
	}
}

// requireAdmin resolves the caller and refuses non-admins.
func (h *flowHandler) requireAdmin(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return "", false
	}
	return userID, true
}

// createFlow godoc
// @Summary Create an approval flow
// @Description Creates a new active flow for an organization and application type
// @Tags flows
// @Accept  json
// @Produce  json
// @Param   flow body dto.CreateFlowRequest true "Flow definition"
// @Success 201 {object} dto.FlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Admin only"
// @Security BearerAuth
// @Router /flows [post]
func (h *flowHandler) createFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	flow, err := h.flowService.CreateFlow(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create flow", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFlowResponse(flow))
}

// listFlows godoc
// @Summary List flows of an organization
// @Tags flows
// @Produce  json
// @Param   organizationID query string true "Organization ID"
// @Success 200 {array} dto.FlowResponse
// @Failure 403 {object} map[string]string "Admin only"
// @Security BearerAuth
// @Router /flows [get]
func (h *flowHandler) listFlows(c *gin.Context) {
	organizationID := c.Query("organizationID")
	if organizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organizationID is required"})
		return
	}

	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	flows, err := h.flowService.ListFlows(c.Request.Context(), organizationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.FlowResponse, len(flows))
	for i := range flows {
		responses[i] = dto.ToFlowResponse(&flows[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getFlow godoc
// @Summary Get a flow by ID
// @Tags flows
// @Produce  json
// @Param   id path string true "Flow ID"
// @Success 200 {object} dto.FlowResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /flows/{id} [get]
func (h *flowHandler) getFlow(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	flow, err := h.flowService.GetFlowByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFlowResponse(flow))
}

// updateFlow godoc
// @Summary Update a flow
// @Description Updates flow metadata; steps can only change while no approval references the flow
// @Tags flows
// @Accept  json
// @Produce  json
// @Param   id path string true "Flow ID"
// @Param   flow body dto.UpdateFlowRequest true "Fields to update"
// @Success 200 {object} dto.FlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Admin only"
// @Failure 409 {object} map[string]string "Flow already in use"
// @Security BearerAuth
// @Router /flows/{id} [put]
func (h *flowHandler) updateFlow(c *gin.Context) {
	var req dto.UpdateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	flow, err := h.flowService.UpdateFlow(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFlowResponse(flow))
}

// deactivateFlow godoc
// @Summary Deactivate a flow
// @Description Marks a flow inactive so it no longer matches new submissions
// @Tags flows
// @Param   id path string true "Flow ID"
// @Success 204 "Deactivated"
// @Failure 403 {object} map[string]string "Admin only"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /flows/{id}/deactivate [post]
func (h *flowHandler) deactivateFlow(c *gin.Context) {
	userID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	if err := h.flowService.DeactivateFlow(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
