package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BudgetController handles HTTP requests related to monthly category budgets
type BudgetController interface {
	GetBudgets(c *gin.Context)
	CreateBudget(c *gin.Context)
	UpdateBudget(c *gin.Context)
	DeleteBudget(c *gin.Context)
}

type budgetController struct {
	service services.BudgetService
}

// NewBudgetController creates a new instance of BudgetController
func NewBudgetController(service services.BudgetService) *budgetController {
	return &budgetController{service: service}
}

// GetBudgets godoc
// @Summary List budgets for a month
// @Description Returns the month's budgets with actual spend, remaining amount and over-budget flag
// @Tags budgets
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Security BearerAuth
// @Success 200 {array} models.BudgetStatus
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/budgets [get]
func (bc *budgetController) GetBudgets(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if y := ctx.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}
	if m := ctx.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = time.Month(parsed)
	}

	budgets, err := bc.service.GetBudgets(userID, year, month)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budgets"})
		return
	}
	ctx.JSON(http.StatusOK, budgets)
}

// CreateBudget godoc
// @Summary Create a monthly budget
// @Description One budget per category per month; duplicates are rejected
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body models.Budget true "Budget object"
// @Security BearerAuth
// @Success 201 {object} models.Budget
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/protected/budgets [post]
func (bc *budgetController) CreateBudget(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var budget models.Budget
	if err := ctx.ShouldBindJSON(&budget); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	budget.UserID = userID

	created, err := bc.service.CreateBudget(budget)
	if err != nil {
		if errors.Is(err, services.ErrBudgetExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "A budget for this category and month already exists"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path int true "Budget ID"
// @Param budget body models.Budget true "Budget object"
// @Security BearerAuth
// @Success 200 {object} models.Budget
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/budgets/{id} [put]
func (bc *budgetController) UpdateBudget(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var budget models.Budget
	if err := ctx.ShouldBindJSON(&budget); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	budget.ID = id
	budget.UserID = userID

	updated, err := bc.service.UpdateBudget(budget)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Param id path int true "Budget ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/budgets/{id} [delete]
func (bc *budgetController) DeleteBudget(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := bc.service.DeleteBudget(userID, id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}
