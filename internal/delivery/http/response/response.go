package response

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key set by the RequestID middleware.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Meta describes a page of a list response.
type Meta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func requestID(c *gin.Context) string {
	id, _ := c.Get(RequestIDKey)
	s, _ := id.(string)
	return s
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Page sends a list response with paging metadata.
func Page(c *gin.Context, message string, data interface{}, total int64, limit, offset int) {
	c.JSON(200, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      &Meta{Total: total, Limit: limit, Offset: offset},
		RequestID: requestID(c),
	})
}

// Error sends an error response. details is optional, e.g. per-field messages.
func Error(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     details,
		RequestID: requestID(c),
	})
}
