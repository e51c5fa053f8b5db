package controllers

import (
	"net/http"

	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalController handles HTTP requests related to savings goals
type GoalController interface {
	GetGoals(c *gin.Context)
	GetGoalByID(c *gin.Context)
	CreateGoal(c *gin.Context)
	UpdateGoal(c *gin.Context)
	DeleteGoal(c *gin.Context)
	// Contribute adds money towards a goal
	Contribute(c *gin.Context)
	// GetSummary returns aggregate progress across all goals
	GetSummary(c *gin.Context)
}

type goalController struct {
	service services.GoalService
}

// NewGoalController creates a new instance of GoalController
func NewGoalController(service services.GoalService) *goalController {
	return &goalController{service: service}
}

// GetGoals godoc
// @Summary List savings goals
// @Description List the authenticated user's goals with computed progress fields
// @Tags goals
// @Produce json
// @Param overdue query bool false "Return only goals past their target date"
// @Security BearerAuth
// @Success 200 {array} models.GoalResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/goals [get]
func (gc *goalController) GetGoals(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var (
		goals []models.GoalResponse
		err   error
	)
	if ctx.Query("overdue") == "true" {
		goals, err = gc.service.GetOverdueGoals(userID)
	} else {
		goals, err = gc.service.GetGoals(userID)
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}
	ctx.JSON(http.StatusOK, goals)
}

// GetGoalByID godoc
// @Summary Get goal by ID
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Security BearerAuth
// @Success 200 {object} models.GoalResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/goals/{id} [get]
func (gc *goalController) GetGoalByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	goal, err := gc.service.GetGoalByID(userID, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	ctx.JSON(http.StatusOK, goal)
}

// CreateGoal godoc
// @Summary Create a new savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param goal body models.Goal true "Goal object"
// @Security BearerAuth
// @Success 201 {object} models.GoalResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/protected/goals [post]
func (gc *goalController) CreateGoal(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var goal models.Goal
	if err := ctx.ShouldBindJSON(&goal); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	goal.UserID = userID

	created, err := gc.service.CreateGoal(goal)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateGoal godoc
// @Summary Update an existing goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param goal body models.Goal true "Goal object"
// @Security BearerAuth
// @Success 200 {object} models.GoalResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/goals/{id} [put]
func (gc *goalController) UpdateGoal(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var goal models.Goal
	if err := ctx.ShouldBindJSON(&goal); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	goal.ID = id
	goal.UserID = userID

	updated, err := gc.service.UpdateGoal(goal)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/goals/{id} [delete]
func (gc *goalController) DeleteGoal(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := gc.service.DeleteGoal(userID, id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Contribute godoc
// @Summary Contribute towards a goal
// @Description Adds an amount to the goal's saved total, marking the goal complete when the target is reached
// @Tags goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Security BearerAuth
// @Success 200 {object} models.GoalResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/goals/{id}/contribute [post]
func (gc *goalController) Contribute(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A positive amount is required"})
		return
	}

	goal, err := gc.service.Contribute(userID, id, req.Amount)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	ctx.JSON(http.StatusOK, goal)
}

// GetSummary godoc
// @Summary Aggregate goal progress
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.GoalSummary
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/goals/summary [get]
func (gc *goalController) GetSummary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	summary, err := gc.service.GetSummary(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute goal summary"})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
