package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finwiseapp/gin-finance-api/internal/models"
	"github.com/finwiseapp/gin-finance-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReminderController handles HTTP requests related to bill reminders
type ReminderController interface {
	GetReminders(c *gin.Context)
	GetReminderByID(c *gin.Context)
	CreateReminder(c *gin.Context)
	UpdateReminder(c *gin.Context)
	DeleteReminder(c *gin.Context)
	// GetCounts returns total/today/upcoming/overdue reminder counts
	GetCounts(c *gin.Context)
}

type reminderController struct {
	service services.ReminderService
}

// NewReminderController creates a new instance of ReminderController
func NewReminderController(service services.ReminderService) *reminderController {
	return &reminderController{service: service}
}

// GetReminders godoc
// @Summary List reminders
// @Description List the authenticated user's reminders, optionally only those due within N days
// @Tags reminders
// @Produce json
// @Param upcomingDays query int false "Only reminders due within this many days"
// @Security BearerAuth
// @Success 200 {array} models.ReminderResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/reminders [get]
func (rc *reminderController) GetReminders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if days := ctx.Query("upcomingDays"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upcomingDays value"})
			return
		}
		reminders, err := rc.service.GetUpcomingReminders(userID, time.Duration(n)*24*time.Hour)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reminders"})
			return
		}
		ctx.JSON(http.StatusOK, reminders)
		return
	}

	reminders, err := rc.service.GetReminders(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reminders"})
		return
	}
	ctx.JSON(http.StatusOK, reminders)
}

// GetReminderByID godoc
// @Summary Get reminder by ID
// @Tags reminders
// @Produce json
// @Param id path int true "Reminder ID"
// @Security BearerAuth
// @Success 200 {object} models.ReminderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/reminders/{id} [get]
func (rc *reminderController) GetReminderByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	reminder, err := rc.service.GetReminderByID(userID, id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}
	ctx.JSON(http.StatusOK, reminder)
}

// CreateReminder godoc
// @Summary Create a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminder body models.Reminder true "Reminder object"
// @Security BearerAuth
// @Success 201 {object} models.ReminderResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/protected/reminders [post]
func (rc *reminderController) CreateReminder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var reminder models.Reminder
	if err := ctx.ShouldBindJSON(&reminder); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	reminder.UserID = userID

	created, err := rc.service.CreateReminder(reminder)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateReminder godoc
// @Summary Update a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param id path int true "Reminder ID"
// @Param reminder body models.Reminder true "Reminder object"
// @Security BearerAuth
// @Success 200 {object} models.ReminderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/reminders/{id} [put]
func (rc *reminderController) UpdateReminder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var reminder models.Reminder
	if err := ctx.ShouldBindJSON(&reminder); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	reminder.ID = id
	reminder.UserID = userID

	updated, err := rc.service.UpdateReminder(reminder)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteReminder godoc
// @Summary Delete a reminder
// @Tags reminders
// @Produce json
// @Param id path int true "Reminder ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/protected/reminders/{id} [delete]
func (rc *reminderController) DeleteReminder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := rc.service.DeleteReminder(userID, id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetCounts godoc
// @Summary Reminder counts
// @Description Total, due-today, upcoming and overdue reminder counts
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ReminderCount
// @Failure 500 {object} map[string]string
// @Router /api/v1/protected/reminders/counts [get]
func (rc *reminderController) GetCounts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	counts, err := rc.service.CountReminders(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reminders"})
		return
	}
	ctx.JSON(http.StatusOK, counts)
}
