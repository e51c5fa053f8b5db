package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func TestMigrateGuestData(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewMigrationService(db)

	data := models.GuestData{
		Transactions: []models.GuestTransaction{
			{
				LocalID:     "guest_txn_1700000000001",
				Description: "Coffee",
				Amount:      decimal.NewFromFloat(4.50),
				Type:        models.TransactionExpense,
				Category:    "Food",
				Date:        time.Now().Add(-48 * time.Hour),
			},
			{
				LocalID:     "guest_txn_1700000000002",
				Description: "Paycheck",
				Amount:      decimal.NewFromInt(2000),
				Type:        models.TransactionIncome,
				Category:    "Salary",
				// Zero date: migration fills it in
			},
		},
		Goals: []models.GuestGoal{
			{
				LocalID:      "guest_goal_1700000000003",
				Name:         "New bike",
				Category:     "Transportation",
				TargetAmount: decimal.NewFromInt(800),
				SavedAmount:  decimal.NewFromInt(120),
				TargetDate:   time.Now().AddDate(0, 4, 0),
			},
		},
	}

	result, err := svc.MigrateGuestData(7, data)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TransactionsMigrated)
	assert.Equal(t, 1, result.GoalsMigrated)

	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", 7).Find(&txns).Error)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, models.SourceGuestMigration, txn.Source)
		assert.True(t, txn.IsGuestMigrated)
		require.NotNil(t, txn.MigratedAt)
		assert.False(t, txn.Date.IsZero())
		assert.NotEmpty(t, txn.PaymentMethod)
	}

	var goals []models.Goal
	require.NoError(t, db.Where("user_id = ?", 7).Find(&goals).Error)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].IsGuestMigrated)
	assert.Equal(t, models.GoalActive, goals[0].Status)
	assert.Equal(t, "Medium", goals[0].Priority)
}

func TestMigrateGuestDataEmpty(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewMigrationService(db)

	result, err := svc.MigrateGuestData(7, models.GuestData{})
	require.NoError(t, err)
	assert.Zero(t, result.TransactionsMigrated)
	assert.Zero(t, result.GoalsMigrated)
}
