package controllers

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
	"github.com/plansapp/plans_backend/utils"
)

type AuthController struct {
	users *repositories.UserRepository
}

func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Register creates a user account and returns a session token
func (ac *AuthController) Register(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing or invalid fields",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to create user",
		})
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := ac.users.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return c.JSON(400, map[string]interface{}{
				"success": false,
				"message": "Email already registered",
			})
		}
		log.Printf("Error creating user: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to create user",
		})
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	return c.JSON(200, map[string]interface{}{
		"user": map[string]interface{}{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
		"token": token,
	})
}

// Login verifies credentials and returns a session token
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing or invalid fields",
		})
	}

	user, err := ac.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(401, map[string]interface{}{
				"success": false,
				"message": "Invalid credentials",
			})
		}
		log.Printf("Error finding user: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	return c.JSON(200, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
