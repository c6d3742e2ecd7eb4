package middleware

import (
	"github.com/gin-gonic/gin"

	"resursbank-gateway/pkg/jwt"
)

// AdminAuth checks the caller holds an admin service token.
func AdminAuth(manager *jwt.Manager) gin.HandlerFunc {
	return ServiceAuth(manager, jwt.ScopeAdmin)
}
