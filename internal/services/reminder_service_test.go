package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func TestCreateReminderAssignsCalendarEvent(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReminderService(db)

	created, err := svc.CreateReminder(models.Reminder{
		UserID: 1, Title: "Pay rent", Date: time.Now().AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.CalendarEventID)
}

func TestCountReminders(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReminderService(db)

	now := time.Now()
	for _, date := range []time.Time{now, now.AddDate(0, 0, 5), now.AddDate(0, 0, -5)} {
		_, err := svc.CreateReminder(models.Reminder{UserID: 1, Title: "Bill", Date: date})
		require.NoError(t, err)
	}

	count, err := svc.CountReminders(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count.Total)
	assert.Equal(t, 1, count.Today)
	assert.Equal(t, 1, count.Upcoming)
	assert.Equal(t, 1, count.Overdue)
}

func TestRemindersScopedToOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReminderService(db)

	mine, err := svc.CreateReminder(models.Reminder{
		UserID: 1, Title: "Mine", Date: time.Now().AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	_, err = svc.GetReminderByID(2, mine.ID)
	assert.Error(t, err)

	err = svc.DeleteReminder(2, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// An update naming someone else's id must not rewrite or reassign it
	hijack := models.Reminder{ID: mine.ID, UserID: 2, Title: "Hijacked", Date: time.Now()}
	_, err = svc.UpdateReminder(hijack)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := svc.GetReminderByID(1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", kept.Title)
	assert.Equal(t, uint(1), kept.UserID)
}

func TestUpdateReminderRequiresExistingRow(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReminderService(db)

	_, err := svc.UpdateReminder(models.Reminder{ID: 42, UserID: 1, Title: "Ghost", Date: time.Now()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Reminder{}).Count(&count).Error)
	assert.Zero(t, count)
}
