package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/plansapp/plans_backend/config"
	"github.com/plansapp/plans_backend/controllers"
	"github.com/plansapp/plans_backend/middleware"
	"github.com/plansapp/plans_backend/repositories"
	"github.com/plansapp/plans_backend/routes"
	"github.com/plansapp/plans_backend/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to database
	client := config.ConnectDB()

	e := echo.New()
	e.Validator = utils.NewValidator()

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	userRepo := repositories.NewUserRepository(client)

	authController := controllers.NewAuthController(userRepo)
	userController := controllers.NewUserController(userRepo)

	routes.RegisterUserRoutes(e, authController, userController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
