package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-Id"
	ctxRequestID    = "request_id"
)

// RequestID honors an id supplied by the caller (so a browser session
// can be traced across retries) and mints one otherwise. The id is
// stashed in the context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ctxRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)

		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "" when the
// middleware did not run.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
