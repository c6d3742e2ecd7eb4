package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resursbank-gateway/internal/shared"
	"resursbank-gateway/internal/shared/utils"
)

// RequestContext tags every request with an id (reusing X-Request-ID when the
// caller sends one) and the resolved client IP.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Set(shared.ContextRequestID, requestID)
		c.Set(shared.ContextClientIP, utils.ExtractClientIP(c))
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
