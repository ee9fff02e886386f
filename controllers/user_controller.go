package controllers

import (
	"log"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
)

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// GetBatch returns public profiles for a comma-separated list of user ids.
// This is the lookup the plan service uses to enrich its listings.
func (uc *UserController) GetBatch(c echo.Context) error {
	idsParam := c.QueryParam("ids")
	if idsParam == "" {
		return c.JSON(200, map[string]interface{}{
			"users": []models.UserProfile{},
		})
	}

	ids := strings.Split(idsParam, ",")
	users, err := uc.users.FindByIDs(c.Request().Context(), ids)
	if err != nil {
		log.Printf("Error fetching users batch: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, models.UserProfile{
			ID:        user.ID.Hex(),
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
		})
	}

	return c.JSON(200, map[string]interface{}{
		"users": profiles,
	})
}
