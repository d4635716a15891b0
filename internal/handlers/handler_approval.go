package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shinseihub/approval_workflow_app/internal/core/domain"
	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

// approvalHandler handles HTTP requests related to approvals.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

// newApprovalHandler creates a new approvalHandler.
func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{
		approvalService: as,
	}
}

// registerApprovalRoutes registers all approval-related routes.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("", h.listMyApprovals)
		approvals.POST("/:id/approve", h.approve)
		approvals.POST("/:id/reject", h.reject)
		approvals.POST("/:id/skip", h.skip)
		approvals.POST("/bulk-approve", h.bulkApprove)
		approvals.POST("/bulk-reject", h.bulkReject)
		approvals.POST("/approve-all", h.approveAll)
		approvals.POST("/reject-all", h.rejectAll)
	}
}

func toActionResponse(result *domain.ApprovalActionResult) dto.ApprovalActionResponse {
	return dto.ApprovalActionResponse{
		Approval:          dto.ToApprovalResponse(&result.Approval),
		ApplicationStatus: string(result.ApplicationStatus),
	}
}

// listMyApprovals godoc
// @Summary List my approvals
// @Description Lists the caller's approval rows, pending by default
// @Tags approvals
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /approvals [get]
func (h *approvalHandler) listMyApprovals(c *gin.Context) {
	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.approvalService.ListMyPendingApprovals(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// approve godoc
// @Summary Approve a row
// @Description Records an approval on a single approval row
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   id path string true "Approval ID"
// @Param   body body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalActionResponse
// @Failure 403 {object} map[string]string "Not the assigned approver"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Already processed or not actionable"
// @Security BearerAuth
// @Router /approvals/{id}/approve [post]
func (h *approvalHandler) approve(c *gin.Context) {
	h.act(c, domain.ApprovalApproved)
}

// skip godoc
// @Summary Skip a row
// @Description Marks a single approval row skipped
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   id path string true "Approval ID"
// @Param   body body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalActionResponse
// @Failure 409 {object} map[string]string "Already processed or not actionable"
// @Security BearerAuth
// @Router /approvals/{id}/skip [post]
func (h *approvalHandler) skip(c *gin.Context) {
	h.act(c, domain.ApprovalSkipped)
}

func (h *approvalHandler) act(c *gin.Context, decision domain.ApprovalStatus) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApprovalActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var result *domain.ApprovalActionResult
	var err error
	if decision == domain.ApprovalSkipped {
		result, err = h.approvalService.Skip(c.Request.Context(), c.Param("id"), req.Comment, userID)
	} else {
		result, err = h.approvalService.Approve(c.Request.Context(), c.Param("id"), req.Comment, userID)
	}
	if err != nil {
		logger.Warn("Failed to process approval", slog.String("decision", string(decision)), slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toActionResponse(result))
}

// reject godoc
// @Summary Reject a row
// @Description Records a rejection on a single approval row; a comment is required
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   id path string true "Approval ID"
// @Param   body body dto.ApprovalRejectRequest true "Rejection comment"
// @Success 200 {object} dto.ApprovalActionResponse
// @Failure 400 {object} map[string]string "Comment missing"
// @Failure 409 {object} map[string]string "Already processed or not actionable"
// @Security BearerAuth
// @Router /approvals/{id}/reject [post]
func (h *approvalHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApprovalRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.Reject(c.Request.Context(), c.Param("id"), req.Comment, userID)
	if err != nil {
		logger.Warn("Failed to reject approval", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toActionResponse(result))
}

// bulkApprove godoc
// @Summary Bulk approve
// @Description Approves the listed rows, reporting per-item failures
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   body body dto.BulkApprovalRequest true "Approval IDs"
// @Success 200 {object} dto.BulkActionResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /approvals/bulk-approve [post]
func (h *approvalHandler) bulkApprove(c *gin.Context) {
	var req dto.BulkApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.BulkApprove(c.Request.Context(), req.ApprovalIDs, req.Comment, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bulkReject godoc
// @Summary Bulk reject
// @Description Rejects the listed rows, reporting per-item failures; a comment is required
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   body body dto.BulkRejectRequest true "Approval IDs and comment"
// @Success 200 {object} dto.BulkActionResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /approvals/bulk-reject [post]
func (h *approvalHandler) bulkReject(c *gin.Context) {
	var req dto.BulkRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.BulkReject(c.Request.Context(), req.ApprovalIDs, req.Comment, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// approveAll godoc
// @Summary Approve everything pending
// @Description Approves every pending row assigned to the caller
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   body body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.BulkActionResult
// @Security BearerAuth
// @Router /approvals/approve-all [post]
func (h *approvalHandler) approveAll(c *gin.Context) {
	var req dto.ApprovalActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.ApproveAll(c.Request.Context(), req.Comment, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// rejectAll godoc
// @Summary Reject everything pending
// @Description Rejects every pending row assigned to the caller; a comment is required
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   body body dto.ApprovalRejectRequest true "Rejection comment"
// @Success 200 {object} dto.BulkActionResult
// @Failure 400 {object} map[string]string "Comment missing"
// @Security BearerAuth
// @Router /approvals/reject-all [post]
func (h *approvalHandler) rejectAll(c *gin.Context) {
	var req dto.ApprovalRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.approvalService.RejectAll(c.Request.Context(), req.Comment, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
