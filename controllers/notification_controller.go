package controllers

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/repositories"
	"github.com/plansapp/plans_backend/services"
)

type NotificationController struct {
	notifs *services.NotificationService
}

func NewNotificationController(notifs *services.NotificationService) *NotificationController {
	return &NotificationController{notifs: notifs}
}

// List returns a page of the user's notifications, newest first
func (nc *NotificationController) List(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing userId",
		})
	}

	page, pageSize := parsePagination(c)

	result, err := nc.notifs.List(c.Request().Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}

	return c.JSON(200, result)
}

// MarkRead marks one of the user's notifications as read
func (nc *NotificationController) MarkRead(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing userId",
		})
	}

	notification, err := nc.notifs.MarkRead(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(404, map[string]interface{}{
				"success": false,
				"message": "Notification not found",
			})
		}
		log.Printf("Error marking notification read: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}

	return c.JSON(200, notification)
}
