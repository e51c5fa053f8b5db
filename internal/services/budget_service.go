package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

var (
	ErrInvalidBudgetLimit = errors.New("invalid_budget_limit")
	ErrBudgetExists       = errors.New("budget_already_exists")
)

// BudgetService manages per-category monthly spending limits
type BudgetService interface {
	GetBudgets(userID uint, year int, month time.Month) ([]models.BudgetStatus, error)
	CreateBudget(budget models.Budget) (models.Budget, error)
	UpdateBudget(budget models.Budget) (models.Budget, error)
	DeleteBudget(userID, id uint) error
}

type budgetService struct {
	db           *gorm.DB
	transactions TransactionService
}

func NewBudgetService(db *gorm.DB, transactions TransactionService) BudgetService {
	return &budgetService{db: db, transactions: transactions}
}

// GetBudgets returns the month's budgets with actual spend joined in
func (s *budgetService) GetBudgets(userID uint, year int, month time.Month) ([]models.BudgetStatus, error) {
	var budgets []models.Budget
	err := s.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Order("category ASC").Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	spend, err := s.transactions.GetCategorySpend(userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	statuses := make([]models.BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent := spend[budget.Category]
		remaining := budget.Limit.Sub(spent)
		statuses = append(statuses, models.BudgetStatus{
			Budget:     budget,
			Spent:      spent,
			Remaining:  remaining,
			OverBudget: remaining.IsNegative(),
		})
	}
	return statuses, nil
}

func (s *budgetService) CreateBudget(budget models.Budget) (models.Budget, error) {
	if !budget.Limit.IsPositive() {
		return models.Budget{}, ErrInvalidBudgetLimit
	}
	if !models.ValidCategory(budget.Category) {
		return models.Budget{}, ErrInvalidCategory
	}

	// One budget per category per month
	var existing models.Budget
	err := s.db.Where("user_id = ? AND category = ? AND year = ? AND month = ?",
		budget.UserID, budget.Category, budget.Year, budget.Month).First(&existing).Error
	if err == nil {
		return models.Budget{}, ErrBudgetExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Budget{}, err
	}

	if err := s.db.Create(&budget).Error; err != nil {
		return models.Budget{}, err
	}
	return budget, nil
}

func (s *budgetService) UpdateBudget(budget models.Budget) (models.Budget, error) {
	if !budget.Limit.IsPositive() {
		return models.Budget{}, ErrInvalidBudgetLimit
	}

	// The row must already belong to the caller; Save alone would adopt
	// (or create) rows it never matched
	var existing models.Budget
	if err := s.db.Where("user_id = ?", budget.UserID).First(&existing, budget.ID).Error; err != nil {
		return models.Budget{}, err
	}

	budget.CreatedAt = existing.CreatedAt

	if err := s.db.Save(&budget).Error; err != nil {
		return models.Budget{}, err
	}
	return budget, nil
}

func (s *budgetService) DeleteBudget(userID, id uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Budget{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
