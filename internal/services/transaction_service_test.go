package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.Goal{},
		&models.Budget{}, &models.Reminder{})
	require.NoError(t, err)

	return db
}

func newExpense(userID uint, desc string, amount float64, category string, date time.Time) models.Transaction {
	return models.Transaction{
		UserID:      userID,
		Description: desc,
		Amount:      decimal.NewFromFloat(amount),
		Type:        models.TransactionExpense,
		Category:    category,
		Date:        date,
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	base := newExpense(1, "Groceries", 42.50, "Food", time.Now())

	t.Run("valid", func(t *testing.T) {
		created, err := svc.CreateTransaction(base)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, models.SourceManual, created.Source)
	})

	t.Run("bad type", func(t *testing.T) {
		txn := base
		txn.Type = "Transfer"
		_, err := svc.CreateTransaction(txn)
		assert.ErrorIs(t, err, ErrInvalidTransactionType)
	})

	t.Run("bad category", func(t *testing.T) {
		txn := base
		txn.Category = "Lottery"
		_, err := svc.CreateTransaction(txn)
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		txn := base
		txn.Amount = decimal.Zero
		_, err := svc.CreateTransaction(txn)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestTransactionsAreScopedToOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	mine, err := svc.CreateTransaction(newExpense(1, "Mine", 10, "Food", time.Now()))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(newExpense(2, "Theirs", 20, "Food", time.Now()))
	require.NoError(t, err)

	txns, err := svc.GetTransactions(1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Mine", txns[0].Description)

	// Another user's id does not resolve someone else's row
	_, err = svc.GetTransactionByID(2, mine.ID)
	assert.Error(t, err)

	err = svc.DeleteTransaction(2, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// An update naming someone else's id must not rewrite or reassign it
	hijack := newExpense(2, "Hijacked", 99, "Food", time.Now())
	hijack.ID = mine.ID
	_, err = svc.UpdateTransaction(hijack)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := svc.GetTransactionByID(1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", kept.Description)
	assert.Equal(t, uint(1), kept.UserID)
}

func TestUpdateTransactionRequiresExistingRow(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	txn := newExpense(1, "Ghost", 10, "Food", time.Now())
	txn.ID = 42
	_, err := svc.UpdateTransaction(txn)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetRecentTransactions(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	now := time.Now()
	for i := 0; i < 5; i++ {
		_, err := svc.CreateTransaction(newExpense(1, "Txn", 10, "Food", now.Add(-time.Duration(i)*24*time.Hour)))
		require.NoError(t, err)
	}

	txns, err := svc.GetRecentTransactions(1, 3)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	// Newest first
	assert.True(t, txns[0].Date.After(txns[1].Date))
}

func TestGetMonthlySummary(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	march := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	_, err := svc.CreateTransaction(models.Transaction{
		UserID: 1, Description: "Salary", Amount: decimal.NewFromInt(5000),
		Type: models.TransactionIncome, Category: "Salary", Date: march,
	})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(newExpense(1, "Rent", 1500, "Rent", march))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(newExpense(1, "Groceries", 300.50, "Food", march.Add(48*time.Hour)))
	require.NoError(t, err)

	// Outside the month, must not count
	_, err = svc.CreateTransaction(newExpense(1, "April rent", 1500, "Rent", march.AddDate(0, 1, 0)))
	require.NoError(t, err)

	summary, err := svc.GetMonthlySummary(1, 2026, time.March)
	require.NoError(t, err)

	assert.True(t, summary.Income.Equal(decimal.NewFromInt(5000)), "income: %s", summary.Income)
	assert.True(t, summary.Expense.Equal(decimal.NewFromFloat(1800.50)), "expense: %s", summary.Expense)
	assert.True(t, summary.Net.Equal(decimal.NewFromFloat(3199.50)), "net: %s", summary.Net)
	assert.Equal(t, 3, summary.Count)
}

func TestGetCategorySpend(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewTransactionService(db)

	now := time.Now()
	_, err := svc.CreateTransaction(newExpense(1, "Lunch", 12, "Food", now))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(newExpense(1, "Dinner", 30, "Food", now))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(newExpense(1, "Bus", 3, "Transportation", now))
	require.NoError(t, err)

	spend, err := svc.GetCategorySpend(1, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, spend["Food"].Equal(decimal.NewFromInt(42)))
	assert.True(t, spend["Transportation"].Equal(decimal.NewFromInt(3)))
}
