package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/controllers"
	"github.com/plansapp/plans_backend/middleware"
)

// RegisterPlanRoutes registers all plan-related routes
func RegisterPlanRoutes(e *echo.Echo, planController *controllers.PlanController) {
	planGroup := e.Group("/api/plans")

	// Public reads
	planGroup.GET("", planController.Feed)
	planGroup.GET("/:id", planController.GetOne)

	// State-changing operations require authentication
	authGroup := e.Group("/api/plans")
	authGroup.Use(middleware.JWTMiddleware())

	authGroup.POST("", planController.Create)
	authGroup.POST("/:id/join", planController.Join)
	authGroup.POST("/:id/requests/:uid/accept", planController.Accept)
	authGroup.POST("/:id/requests/:uid/reject", planController.Reject)
	authGroup.GET("/:id/requests", planController.ListRequests)
	authGroup.POST("/:id/like", planController.Like)
	authGroup.POST("/:id/unlike", planController.Unlike)
	authGroup.GET("/:id/members", planController.Members)
}
