package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func newTestGoal(userID uint, name string, target, saved int64, targetDate time.Time) models.Goal {
	return models.Goal{
		UserID:       userID,
		Name:         name,
		Category:     "Savings",
		TargetAmount: decimal.NewFromInt(target),
		SavedAmount:  decimal.NewFromInt(saved),
		TargetDate:   targetDate,
		Status:       models.GoalActive,
	}
}

func TestCreateGoalComputesProgress(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewGoalService(db)

	created, err := svc.CreateGoal(newTestGoal(1, "Vacation", 1000, 250, time.Now().AddDate(0, 6, 0)))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, 25, created.ProgressPercentage)
	assert.True(t, created.RemainingAmount.Equal(decimal.NewFromInt(750)))
	assert.False(t, created.IsOverdue)
	assert.Greater(t, created.DaysRemaining, 0)
}

func TestOverdueGoals(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewGoalService(db)

	_, err := svc.CreateGoal(newTestGoal(1, "Past due", 1000, 100, time.Now().AddDate(0, 0, -10)))
	require.NoError(t, err)
	_, err = svc.CreateGoal(newTestGoal(1, "On track", 1000, 100, time.Now().AddDate(0, 3, 0)))
	require.NoError(t, err)

	overdue, err := svc.GetOverdueGoals(1)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Past due", overdue[0].Name)
	assert.True(t, overdue[0].IsOverdue)
}

func TestContribute(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewGoalService(db)

	created, err := svc.CreateGoal(newTestGoal(1, "Laptop", 1000, 900, time.Now().AddDate(0, 1, 0)))
	require.NoError(t, err)

	t.Run("partial contribution stays active", func(t *testing.T) {
		goal, err := svc.Contribute(1, created.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, models.GoalActive, goal.Status)
		assert.True(t, goal.SavedAmount.Equal(decimal.NewFromInt(950)))
	})

	t.Run("reaching the target completes the goal", func(t *testing.T) {
		goal, err := svc.Contribute(1, created.ID, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, goal.Status)
		require.NotNil(t, goal.CompletedDate)
		assert.Equal(t, 100, goal.ProgressPercentage)
	})

	t.Run("completed goals reject contributions", func(t *testing.T) {
		_, err := svc.Contribute(1, created.ID, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrGoalNotActive)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		_, err := svc.Contribute(1, created.ID, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidContribution)
	})
}

func TestGoalSummary(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewGoalService(db)

	_, err := svc.CreateGoal(newTestGoal(1, "A", 1000, 400, time.Now().AddDate(0, 2, 0)))
	require.NoError(t, err)
	_, err = svc.CreateGoal(newTestGoal(1, "B", 500, 100, time.Now().AddDate(0, 2, 0)))
	require.NoError(t, err)

	summary, err := svc.GetSummary(1)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalGoals)
	assert.True(t, summary.TotalTargetAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.TotalSavedAmount.Equal(decimal.NewFromInt(500)))
}

func TestGoalsScopedToOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewGoalService(db)

	created, err := svc.CreateGoal(newTestGoal(1, "Mine", 100, 0, time.Now().AddDate(0, 1, 0)))
	require.NoError(t, err)

	_, err = svc.GetGoalByID(2, created.ID)
	assert.Error(t, err)

	err = svc.DeleteGoal(2, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// An update naming someone else's id must not rewrite or reassign it
	hijack := newTestGoal(2, "Hijacked", 1, 0, time.Now().AddDate(0, 1, 0))
	hijack.ID = created.ID
	_, err = svc.UpdateGoal(hijack)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := svc.GetGoalByID(1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", kept.Name)
	assert.Equal(t, uint(1), kept.UserID)
	assert.True(t, kept.TargetAmount.Equal(decimal.NewFromInt(100)))
}
