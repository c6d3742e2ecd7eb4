package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resursbank-gateway/internal/shared"
	"resursbank-gateway/internal/shared/response"
	"resursbank-gateway/pkg/jwt"
	"resursbank-gateway/pkg/logger"
)

// ServiceAuth requires a bearer service token carrying scope.
func ServiceAuth(manager *jwt.Manager, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			c.Abort()
			return
		}

		claims, err := manager.ValidateScope(token, scope)
		if err != nil {
			logger.Warn("service token rejected", map[string]interface{}{
				"request_id": c.GetString(shared.ContextRequestID),
				"scope":      scope,
				"error":      err.Error(),
			})
			response.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			c.Abort()
			return
		}

		c.Set(shared.ContextSubject, claims.Subject)
		c.Set(shared.ContextScope, claims.Scope)
		c.Next()
	}
}
