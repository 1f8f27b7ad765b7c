package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"jobmarket-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// UploadAllower decides whether a caller may upload another file.
type UploadAllower interface {
	AllowUpload(ctx context.Context, ip, accountID string) (bool, int, error)
}

// UploadRateLimit throttles multipart writes. Other requests pass straight through.
func UploadRateLimit(limiter UploadAllower) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || !strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Next()
			return
		}

		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), ActorFrom(c).ID)
		if err != nil {
			logRateLimitError(c, err)
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
