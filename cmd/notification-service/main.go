package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/plansapp/plans_backend/config"
	"github.com/plansapp/plans_backend/controllers"
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

	// Initialize Firebase (nil when push credentials are absent)
	firebaseApp := config.InitFirebase()

	// Connect to database
	client := config.ConnectDB()

	notifRepo := repositories.NewNotificationRepository(client)
	tokenRepo := repositories.NewDeviceTokenRepository(client)

	pushService := services.NewPushService(firebaseApp)
	notifService := services.NewNotificationService(notifRepo, tokenRepo, pushService)

	// Consume notification events in the background; the loop commits
	// offsets only after the store write succeeds.
	reader := config.NewKafkaReader(config.NotificationTopic(), config.KafkaGroupID())
	consumer := services.NewConsumer(reader, notifService)
	defer consumer.Close()
	go consumer.Run(context.Background())

	e := echo.New()
	e.Validator = utils.NewValidator()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	notificationController := controllers.NewNotificationController(notifService)
	deviceTokenController := controllers.NewDeviceTokenController(tokenRepo)
	routes.RegisterNotificationRoutes(e, notificationController, deviceTokenController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3003"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
