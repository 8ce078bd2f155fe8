// internal/app/router.go
package app

import (
	authHandler "kynix-service/internal/handlers/auth"
	notifHandler "kynix-service/internal/handlers/notification"
	rtHandler "kynix-service/internal/handlers/realtime"
	"kynix-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth           *authHandler.AuthHandler
	Notification   *notifHandler.NotificationHandler
	WebSocket      *rtHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WebSocket.HandleConnection)

	api := r.Group("/api")

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.Auth.Register)
		authPublic.POST("/login", h.Auth.Login)
		authPublic.POST("/refresh", h.Auth.Refresh)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.Auth.Me)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.Authorize())
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.PUT("/:id/read", h.Notification.MarkAsRead)
		notifications.PUT("/read-all", h.Notification.MarkAllAsRead)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.POST("/notifications", h.Notification.Create)
		admin.GET("/ws/stats", h.WebSocket.Stats)
	}
}
