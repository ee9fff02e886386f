package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/plansapp/plans_backend/middleware"
	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
	"github.com/plansapp/plans_backend/services"
)

type PlanController struct {
	plans *services.PlanService
}

func NewPlanController(plans *services.PlanService) *PlanController {
	return &PlanController{plans: plans}
}

// Create creates a new plan owned by the authenticated user
func (pc *PlanController) Create(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req models.CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Missing required fields",
		})
	}

	plan, err := pc.plans.CreatePlan(c.Request().Context(), claims.UserID, &req)
	if err != nil {
		log.Printf("Error creating plan: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Failed to create plan",
		})
	}

	return c.JSON(200, map[string]interface{}{
		"plan": plan,
	})
}

// Join requests to join a plan
func (pc *PlanController) Join(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	err := pc.plans.RequestJoin(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return pc.planError(c, err, "Request already exists")
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Join request sent",
	})
}

// Accept accepts a join request (owner only)
func (pc *PlanController) Accept(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	err := pc.plans.AcceptJoin(c.Request().Context(), c.Param("id"), claims.UserID, c.Param("uid"))
	if err != nil {
		return pc.planError(c, err, "")
	}

	return c.JSON(200, map[string]interface{}{
		"message": "User added to plan",
	})
}

// Reject rejects a join request (owner only)
func (pc *PlanController) Reject(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	err := pc.plans.RejectJoin(c.Request().Context(), c.Param("id"), claims.UserID, c.Param("uid"))
	if err != nil {
		return pc.planError(c, err, "")
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Join request rejected",
	})
}

// Like likes a plan
func (pc *PlanController) Like(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	err := pc.plans.Like(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return pc.planError(c, err, "Already liked")
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Liked",
	})
}

// Unlike removes a like from a plan
func (pc *PlanController) Unlike(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	err := pc.plans.Unlike(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return pc.planError(c, err, "")
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Unliked",
	})
}

// GetOne returns a plan by id
func (pc *PlanController) GetOne(c echo.Context) error {
	plan, err := pc.plans.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return pc.planError(c, err, "")
	}
	return c.JSON(200, plan)
}

// Feed returns the latest plans
func (pc *PlanController) Feed(c echo.Context) error {
	plans, err := pc.plans.Feed(c.Request().Context())
	if err != nil {
		log.Printf("Error loading feed: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}
	return c.JSON(200, plans)
}

// ListRequests lists a plan's join requests (owner only)
func (pc *PlanController) ListRequests(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(401, map[string]interface{}{
			"success": false,
			"message": "Unauthorized",
		})
	}

	page, pageSize := parsePagination(c)
	status := c.QueryParam("status")

	result, err := pc.plans.GetJoinRequests(c.Request().Context(), c.Param("id"), claims.UserID, status, page, pageSize)
	if err != nil {
		return pc.planError(c, err, "")
	}

	return c.JSON(200, result)
}

// Members lists a plan's accepted members
func (pc *PlanController) Members(c echo.Context) error {
	page, pageSize := parsePagination(c)

	result, err := pc.plans.GetMembers(c.Request().Context(), c.Param("id"), page, pageSize)
	if err != nil {
		return pc.planError(c, err, "")
	}

	return c.JSON(200, result)
}

// planError maps service errors onto HTTP responses.
func (pc *PlanController) planError(c echo.Context, err error, existsMessage string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.JSON(404, map[string]interface{}{
			"success": false,
			"message": "Plan not found",
		})
	case errors.Is(err, repositories.ErrAlreadyExists):
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": existsMessage,
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.JSON(403, map[string]interface{}{
			"success": false,
			"message": "Not the owner of this plan",
		})
	case errors.Is(err, services.ErrJoinRequestNotFound):
		return c.JSON(400, map[string]interface{}{
			"success": false,
			"message": "Join request not found",
		})
	default:
		log.Printf("Plan operation failed: %v", err)
		return c.JSON(500, map[string]interface{}{
			"success": false,
			"message": "Database error",
		})
	}
}

// parsePagination reads page/pageSize query params with the clamping the
// HTTP layer owns (page >= 1, pageSize <= 100).
func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 1 {
		page = p
	}

	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 {
		pageSize = ps
		if pageSize > 100 {
			pageSize = 100
		}
	}

	return page, pageSize
}
