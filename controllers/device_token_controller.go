package controllers

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
)

type DeviceTokenController struct {
	tokens *repositories.DeviceTokenRepository
}

func NewDeviceTokenController(tokens *repositories.DeviceTokenRepository) *DeviceTokenController {
	return &DeviceTokenController{tokens: tokens}
}

// Register stores a device token for push delivery. Re-registering the same
// token is a no-op success.
func (dc *DeviceTokenController) Register(c echo.Context) error {
	var req models.RegisterDeviceTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing userId or token",
		})
	}

	platform := req.Platform
	if platform == "" {
		platform = "android"
	}

	if err := dc.tokens.Register(c.Request().Context(), req.UserID, req.Token, platform); err != nil {
		log.Printf("Error registering device token: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to register device token",
		})
	}

	return c.JSON(200, map[string]interface{}{
		"success": true,
	})
}
