package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
	"github.com/shinseihub/approval_workflow_app/internal/dto"
	"github.com/shinseihub/approval_workflow_app/internal/middleware"
)

// applicationHandler handles HTTP requests related to applications.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
}

// newApplicationHandler creates a new applicationHandler.
func newApplicationHandler(as portssvc.ApplicationSvcFacade) *applicationHandler {
	return &applicationHandler{
		applicationService: as,
	}
}

// registerApplicationRoutes registers all application-related routes.
func registerApplicationRoutes(rg *gin.RouterGroup, applicationService portssvc.ApplicationSvcFacade) {
	h := newApplicationHandler(applicationService)

	applications := rg.Group("/applications")
	{
		applications.POST("", h.createApplication)
		applications.GET("", h.listApplications)
		applications.GET("/:id", h.getApplication)
		applications.PUT("/:id", h.updateApplication)
		applications.POST("/:id/submit", h.submitApplication)
		applications.POST("/:id/cancel", h.cancelApplication)
		applications.DELETE("/:id", h.deleteApplication)
	}
}

// createApplication godoc
// @Summary Create a new application
// @Description Creates a new draft application owned by the caller
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   application body dto.CreateApplicationRequest true "Application details"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /applications [post]
func (h *applicationHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create application request", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	app, err := h.applicationService.CreateApplication(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create application", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// listApplications godoc
// @Summary List applications
// @Description Lists applications visible to the caller with optional filters
// @Tags applications
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   type query string false "Filter by type"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /applications [get]
func (h *applicationHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.applicationService.ListApplications(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list applications", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getApplication godoc
// @Summary Get an application
// @Description Retrieves an application with its approval rows
// @Tags applications
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationDetailResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *applicationHandler) getApplication(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	detail, err := h.applicationService.GetApplicationDetail(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// updateApplication godoc
// @Summary Update an application
// @Description Updates an editable application's details
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   id path string true "Application ID"
// @Param   application body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Application not editable"
// @Security BearerAuth
// @Router /applications/{id} [put]
func (h *applicationHandler) updateApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	app, err := h.applicationService.UpdateApplication(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		logger.Warn("Failed to update application", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// submitApplication godoc
// @Summary Submit an application
// @Description Moves a draft into review, resolving its approval flow
// @Tags applications
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Not a draft"
// @Failure 422 {object} map[string]string "No flow configured"
// @Security BearerAuth
// @Router /applications/{id}/submit [post]
func (h *applicationHandler) submitApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	app, err := h.applicationService.SubmitApplication(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		logger.Warn("Failed to submit application", slog.String("error", err.Error()))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// cancelApplication godoc
// @Summary Cancel an application
// @Description Cancels a draft or under-review application
// @Tags applications
// @Produce  json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Already terminal"
// @Security BearerAuth
// @Router /applications/{id}/cancel [post]
func (h *applicationHandler) cancelApplication(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	app, err := h.applicationService.CancelApplication(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// deleteApplication godoc
// @Summary Delete an application
// @Description Permanently removes a draft application
// @Tags applications
// @Param   id path string true "Application ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Not a draft"
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (h *applicationHandler) deleteApplication(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.applicationService.DeleteApplication(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
