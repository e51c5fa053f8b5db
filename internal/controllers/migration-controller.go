package controllers

import (
	"net/http"

	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MigrationController handles the one-shot transfer of guest-mode data
// into an authenticated account.
type MigrationController interface {
	Migrate(c *gin.Context)
}

type migrationController struct {
	service services.MigrationService
}

// NewMigrationController creates a new instance of MigrationController
func NewMigrationController(service services.MigrationService) *migrationController {
	return &migrationController{service: service}
}

// Migrate godoc
// @Summary Migrate guest data into the authenticated account
// @Description Inserts guest-mode transactions and goals under the authenticated user. The whole batch is applied in a single database transaction.
// @Tags migration
// @Accept json
// @Produce json
// @Param data body models.GuestData true "Guest transactions and goals"
// @Security BearerAuth
// @Success 200 {object} models.MigrationResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/migrate [post]
func (mc *migrationController) Migrate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var data models.GuestData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(data.Transactions) == 0 && len(data.Goals) == 0 {
		ctx.JSON(http.StatusOK, models.MigrationResult{})
		return
	}

	result, err := mc.service.MigrateGuestData(userID, data)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Migration failed; no data was transferred"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
