package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/controllers"
)

// RegisterUserRoutes registers all user-service routes
func RegisterUserRoutes(e *echo.Echo, authController *controllers.AuthController, userController *controllers.UserController) {
	userGroup := e.Group("/api/users")

	userGroup.POST("/register", authController.Register)
	userGroup.POST("/login", authController.Login)

	// Batch profile lookup used by the plan service for listing enrichment
	userGroup.GET("/batch", userController.GetBatch)
}
