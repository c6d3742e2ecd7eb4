package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resursbank-gateway/internal/shared/middleware"
	"resursbank-gateway/pkg/container"
	"resursbank-gateway/pkg/jwt"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestContext(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCallbackRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupCheckoutRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// CALLBACK ROUTES
// ========================================
// The provider sends callbacks as GET with query parameters; POST is
// accepted for form-encoded deliveries.
func setupCallbackRoutes(v1 *gin.RouterGroup, c *container.Container) {
	callbacks := v1.Group("/callbacks")
	{
		callbacks.GET("/resurs", c.CallbackHandler.Receive)
		callbacks.POST("/resurs", c.CallbackHandler.Receive)
	}
}

// ========================================
// PAYMENT ROUTES (storefront service token)
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	payments := v1.Group("/payments")
	payments.Use(middleware.ServiceAuth(c.JWTManager, jwt.ScopeCheckout))
	{
		payments.POST("/link", c.PaymentHandler.LinkPayment)
		payments.GET("/methods", c.PaymentHandler.PaymentMethods)
	}
}

// ========================================
// CHECKOUT ROUTES (customer browser)
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	checkout := v1.Group("/checkout")
	{
		checkout.GET("/return", c.PaymentHandler.CustomerReturn)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(c.JWTManager))
	{
		admin.GET("/commands", c.AdminHandler.ListCommands)
		admin.POST("/commands/:command", c.AdminHandler.RunCommand)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		// Check redis (cache and queue share it)
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		queueStatus := "ok"
		if err := appCtx.Queue.Ping(); err != nil {
			queueStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		_, configured := appCtx.Credentials.Active()

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"queue":    queueStatus,
		}
		health["resurs"] = gin.H{
			"environment": appCtx.Config.Resurs.Environment,
			"flavour":     appCtx.Config.Resurs.Flavour,
			"configured":  configured,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
