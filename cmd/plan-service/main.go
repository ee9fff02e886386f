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
	"github.com/plansapp/plans_backend/services"
	"github.com/plansapp/plans_backend/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to database
	client := config.ConnectDB()

	// Connect to Redis (optional, backs the profile cache)
	redisClient := config.ConnectRedis()

	// Kafka producer shared by all handlers
	producer := services.NewKafkaProducer(config.NewKafkaWriter())
	defer producer.Close()

	planRepo := repositories.NewPlanRepository(client)
	userClient := services.NewUserClient(redisClient)
	planService := services.NewPlanService(planRepo, producer, userClient, config.NotificationTopic())

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

	planController := controllers.NewPlanController(planService)
	routes.RegisterPlanRoutes(e, planController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
