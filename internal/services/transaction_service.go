package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

var (
	ErrInvalidTransactionType = errors.New("invalid_transaction_type")
	ErrInvalidCategory        = errors.New("invalid_category")
	ErrInvalidPaymentMethod   = errors.New("invalid_payment_method")
	ErrInvalidAmount          = errors.New("invalid_amount")
)

// TransactionService provides methods to interact with a user's transactions
type TransactionService interface {
	// GetTransactions retrieves all transactions for a user, newest first
	GetTransactions(userID uint) ([]models.Transaction, error)
	// GetTransactionByID retrieves a single transaction scoped to its owner
	GetTransactionByID(userID, id uint) (models.Transaction, error)
	// GetRecentTransactions retrieves the newest n transactions
	GetRecentTransactions(userID uint, n int) ([]models.Transaction, error)
	// GetTransactionsByDateRange retrieves transactions in [from, to)
	GetTransactionsByDateRange(userID uint, from, to time.Time) ([]models.Transaction, error)
	// GetTransactionsByGoal retrieves transactions linked to a goal
	GetTransactionsByGoal(userID, goalID uint) ([]models.Transaction, error)
	// CreateTransaction validates and inserts a new transaction
	CreateTransaction(txn models.Transaction) (models.Transaction, error)
	// UpdateTransaction updates an existing transaction
	UpdateTransaction(txn models.Transaction) (models.Transaction, error)
	// DeleteTransaction deletes a transaction scoped to its owner
	DeleteTransaction(userID, id uint) error
	// GetMonthlySummary aggregates one calendar month of transactions
	GetMonthlySummary(userID uint, year int, month time.Month) (models.MonthlySummary, error)
	// GetCategorySpend sums expenses per category in [from, to)
	GetCategorySpend(userID uint, from, to time.Time) (map[string]decimal.Decimal, error)
}

type transactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) TransactionService {
	return &transactionService{db: db}
}

func (s *transactionService) GetTransactions(userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) GetTransactionByID(userID, id uint) (models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Where("user_id = ?", userID).First(&txn, id).Error; err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func (s *transactionService) GetRecentTransactions(userID uint, n int) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Limit(n).Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) GetTransactionsByDateRange(userID uint, from, to time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date DESC").Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) GetTransactionsByGoal(userID, goalID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.Where("user_id = ? AND goal_id = ?", userID, goalID).
		Order("date DESC").Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) CreateTransaction(txn models.Transaction) (models.Transaction, error) {
	if err := validateTransaction(&txn); err != nil {
		return models.Transaction{}, err
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}
	if txn.Source == "" {
		txn.Source = models.SourceManual
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func (s *transactionService) UpdateTransaction(txn models.Transaction) (models.Transaction, error) {
	if err := validateTransaction(&txn); err != nil {
		return models.Transaction{}, err
	}

	// The row must already belong to the caller; Save alone would adopt
	// (or create) rows it never matched
	var existing models.Transaction
	if err := s.db.Where("user_id = ?", txn.UserID).First(&existing, txn.ID).Error; err != nil {
		return models.Transaction{}, err
	}

	// Server-stamped fields survive the rewrite
	txn.CreatedAt = existing.CreatedAt
	txn.Source = existing.Source
	txn.IsGuestMigrated = existing.IsGuestMigrated
	txn.MigratedAt = existing.MigratedAt

	if err := s.db.Save(&txn).Error; err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func (s *transactionService) DeleteTransaction(userID, id uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Transaction{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *transactionService) GetMonthlySummary(userID uint, year int, month time.Month) (models.MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	txns, err := s.GetTransactionsByDateRange(userID, from, to)
	if err != nil {
		return models.MonthlySummary{}, err
	}

	summary := models.MonthlySummary{
		Year:       year,
		Month:      month,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
		Count:      len(txns),
	}

	for _, txn := range txns {
		switch txn.Type {
		case models.TransactionIncome:
			summary.Income = summary.Income.Add(txn.Amount)
		case models.TransactionExpense:
			summary.Expense = summary.Expense.Add(txn.Amount)
		}
		summary.ByCategory[txn.Category] = summary.ByCategory[txn.Category].Add(txn.Amount)
	}
	summary.Net = summary.Income.Sub(summary.Expense)

	return summary, nil
}

func (s *transactionService) GetCategorySpend(userID uint, from, to time.Time) (map[string]decimal.Decimal, error) {
	var txns []models.Transaction
	err := s.db.Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
		userID, models.TransactionExpense, from, to).Find(&txns).Error
	if err != nil {
		return nil, err
	}

	spend := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		spend[txn.Category] = spend[txn.Category].Add(txn.Amount)
	}
	return spend, nil
}

func validateTransaction(txn *models.Transaction) error {
	if txn.Type != models.TransactionIncome && txn.Type != models.TransactionExpense {
		return ErrInvalidTransactionType
	}
	if !models.ValidCategory(txn.Category) {
		return ErrInvalidCategory
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = "Other"
	} else if !models.ValidPaymentMethod(txn.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if !txn.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
