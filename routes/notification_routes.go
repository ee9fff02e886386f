package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/controllers"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController, deviceTokenController *controllers.DeviceTokenController) {
	notificationGroup := e.Group("/api/notifications")
	notificationGroup.GET("", notificationController.List)
	notificationGroup.POST("/:id/read", notificationController.MarkRead)

	e.POST("/api/device-tokens", deviceTokenController.Register)
}
