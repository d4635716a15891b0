package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
)

// pathsToSkip contains paths that should not be tracked
var pathsToSkip = map[string]bool{
	"/health": true,
}

// TelemetryMiddleware creates a Gin middleware handler that records an
// analytics event per successful authenticated request.
func TelemetryMiddleware(recorder portssvc.TelemetryRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Skip if there was an error processing the request
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Get user ID from context (set by auth middleware)
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Create event name from route path (e.g., "/api/v1/applications" -> "api_v1_applications")
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		recorder.RecordEvent(c.Request.Context(), userID, eventName, props)
	}
}
