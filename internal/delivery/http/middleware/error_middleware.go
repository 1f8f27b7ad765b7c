package middleware

import (
	"errors"
	"net/http"

	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			if appErr.Kind == apperror.KindInternal || appErr.Kind == apperror.KindDelivery {
				logger.Log.Error("request failed",
					"kind", appErr.Kind, "error", err, "path", c.FullPath(), "request_id", c.GetString(response.RequestIDKey))
			}
			if appErr.Kind == apperror.KindPermission {
				logPermissionDenied(c)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Not found", nil)
		default:
			// Never expose internal error details to clients
			logger.Log.Error("unhandled error",
				"error", err, "path", c.FullPath(), "request_id", c.GetString(response.RequestIDKey))
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}

func logPermissionDenied(c *gin.Context) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:        security.EventPermissionDenied,
		SubjectType:  "account_id",
		SubjectValue: ActorFrom(c).ID,
		IP:           c.ClientIP(),
		RequestID:    c.GetString(response.RequestIDKey),
		Details:      map[string]interface{}{"method": c.Request.Method, "path": c.FullPath()},
	})
}
