package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TransactionController handles HTTP requests related to transactions
type TransactionController interface {
	// GetTransactions retrieves the authenticated user's transactions
	GetTransactions(c *gin.Context)
	// GetTransactionByID retrieves a single transaction by its ID
	GetTransactionByID(c *gin.Context)
	// CreateTransaction creates a new transaction
	CreateTransaction(c *gin.Context)
	// UpdateTransaction updates an existing transaction
	UpdateTransaction(c *gin.Context)
	// DeleteTransaction deletes a transaction by its ID
	DeleteTransaction(c *gin.Context)
	// GetMonthlySummary returns income/expense aggregates for a month
	GetMonthlySummary(c *gin.Context)
}

type transactionController struct {
	service services.TransactionService
}

// NewTransactionController creates a new instance of TransactionController
func NewTransactionController(service services.TransactionService) *transactionController {
	return &transactionController{service: service}
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the authenticated user's transactions, optionally filtered by date range or limited to the most recent N
// @Tags transactions
// @Produce json
// @Param from query string false "Start date (RFC 3339)"
// @Param to query string false "End date (RFC 3339)"
// @Param recent query int false "Return only the N most recent transactions"
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/transactions [get]
func (tc *transactionController) GetTransactions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if recent := ctx.Query("recent"); recent != "" {
		n, err := strconv.Atoi(recent)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recent count"})
			return
		}
		txns, err := tc.service.GetRecentTransactions(userID, n)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
			return
		}
		ctx.JSON(http.StatusOK, txns)
		return
	}

	fromStr, toStr := ctx.Query("from"), ctx.Query("to")
	if fromStr != "" && toStr != "" {
		from, err1 := time.Parse(time.RFC3339, fromStr)
		to, err2 := time.Parse(time.RFC3339, toStr)
		if err1 != nil || err2 != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be RFC 3339 formatted"})
			return
		}
		txns, err := tc.service.GetTransactionsByDateRange(userID, from, to)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
			return
		}
		ctx.JSON(http.StatusOK, txns)
		return
	}

	txns, err := tc.service.GetTransactions(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	ctx.JSON(http.StatusOK, txns)
}

// GetTransactionByID godoc
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security BearerAuth
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/transactions/{id} [get]
func (tc *transactionController) GetTransactionByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	txn, err := tc.service.GetTransactionByID(userID, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	ctx.JSON(http.StatusOK, txn)
}

// CreateTransaction godoc
// @Summary Create a new transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.Transaction true "Transaction object"
// @Security BearerAuth
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/transactions [post]
func (tc *transactionController) CreateTransaction(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var txn models.Transaction
	if err := ctx.ShouldBindJSON(&txn); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	txn.UserID = userID

	created, err := tc.service.CreateTransaction(txn)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateTransaction godoc
// @Summary Update an existing transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body models.Transaction true "Transaction object"
// @Security BearerAuth
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/transactions/{id} [put]
func (tc *transactionController) UpdateTransaction(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var txn models.Transaction
	if err := ctx.ShouldBindJSON(&txn); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	txn.ID = id
	txn.UserID = userID

	updated, err := tc.service.UpdateTransaction(txn)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/transactions/{id} [delete]
func (tc *transactionController) DeleteTransaction(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := tc.service.DeleteTransaction(userID, id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetMonthlySummary godoc
// @Summary Monthly income/expense summary
// @Tags transactions
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Security BearerAuth
// @Success 200 {object} models.MonthlySummary
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/transactions/summary [get]
func (tc *transactionController) GetMonthlySummary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	year, err1 := strconv.Atoi(ctx.Query("year"))
	month, err2 := strconv.Atoi(ctx.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}

	summary, err := tc.service.GetMonthlySummary(userID, year, time.Month(month))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// parseIDParam parses the :id path parameter, writing the error response
// itself on failure.
func parseIDParam(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, err
	}
	return uint(id), nil
}
