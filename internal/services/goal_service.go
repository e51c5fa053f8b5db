package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

var (
	ErrInvalidGoalCategory = errors.New("invalid_goal_category")
	ErrInvalidTargetAmount = errors.New("invalid_target_amount")
	ErrGoalNotActive       = errors.New("goal_not_active")
	ErrInvalidContribution = errors.New("invalid_contribution_amount")
)

// GoalService provides methods to interact with a user's savings goals
type GoalService interface {
	GetGoals(userID uint) ([]models.GoalResponse, error)
	GetGoalByID(userID, id uint) (models.GoalResponse, error)
	CreateGoal(goal models.Goal) (models.GoalResponse, error)
	UpdateGoal(goal models.Goal) (models.GoalResponse, error)
	DeleteGoal(userID, id uint) error
	// Contribute adds to a goal's saved amount, completing it when the
	// target is reached
	Contribute(userID, id uint, amount decimal.Decimal) (models.GoalResponse, error)
	GetSummary(userID uint) (models.GoalSummary, error)
	GetOverdueGoals(userID uint) ([]models.GoalResponse, error)
}

type goalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGoalService(db *gorm.DB) GoalService {
	return &goalService{db: db, now: time.Now}
}

func (s *goalService) GetGoals(userID uint) ([]models.GoalResponse, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("target_date ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return s.enrichAll(goals), nil
}

func (s *goalService) GetGoalByID(userID, id uint) (models.GoalResponse, error) {
	var goal models.Goal
	if err := s.db.Where("user_id = ?", userID).First(&goal, id).Error; err != nil {
		return models.GoalResponse{}, err
	}
	return goal.Enrich(s.now()), nil
}

func (s *goalService) CreateGoal(goal models.Goal) (models.GoalResponse, error) {
	if !models.ValidGoalCategory(goal.Category) {
		return models.GoalResponse{}, ErrInvalidGoalCategory
	}
	if !goal.TargetAmount.IsPositive() {
		return models.GoalResponse{}, ErrInvalidTargetAmount
	}
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	if goal.Priority == "" {
		goal.Priority = "Medium"
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return models.GoalResponse{}, err
	}
	return goal.Enrich(s.now()), nil
}

func (s *goalService) UpdateGoal(goal models.Goal) (models.GoalResponse, error) {
	if !models.ValidGoalCategory(goal.Category) {
		return models.GoalResponse{}, ErrInvalidGoalCategory
	}

	// The row must already belong to the caller; Save alone would adopt
	// (or create) rows it never matched
	var existing models.Goal
	if err := s.db.Where("user_id = ?", goal.UserID).First(&existing, goal.ID).Error; err != nil {
		return models.GoalResponse{}, err
	}

	goal.CreatedAt = existing.CreatedAt
	goal.IsGuestMigrated = existing.IsGuestMigrated
	goal.MigratedAt = existing.MigratedAt

	if err := s.db.Save(&goal).Error; err != nil {
		return models.GoalResponse{}, err
	}
	return goal.Enrich(s.now()), nil
}

func (s *goalService) DeleteGoal(userID, id uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Goal{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *goalService) Contribute(userID, id uint, amount decimal.Decimal) (models.GoalResponse, error) {
	if !amount.IsPositive() {
		return models.GoalResponse{}, ErrInvalidContribution
	}

	var goal models.Goal
	if err := s.db.Where("user_id = ?", userID).First(&goal, id).Error; err != nil {
		return models.GoalResponse{}, err
	}
	if goal.Status != models.GoalActive {
		return models.GoalResponse{}, ErrGoalNotActive
	}

	goal.SavedAmount = goal.SavedAmount.Add(amount)
	if goal.SavedAmount.GreaterThanOrEqual(goal.TargetAmount) {
		now := s.now()
		goal.Status = models.GoalCompleted
		goal.CompletedDate = &now
	}

	if err := s.db.Save(&goal).Error; err != nil {
		return models.GoalResponse{}, err
	}
	return goal.Enrich(s.now()), nil
}

func (s *goalService) GetSummary(userID uint) (models.GoalSummary, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return models.GoalSummary{}, err
	}

	summary := models.GoalSummary{
		TotalGoals:        len(goals),
		TotalTargetAmount: decimal.Zero,
		TotalSavedAmount:  decimal.Zero,
	}
	for _, goal := range goals {
		switch goal.Status {
		case models.GoalActive:
			summary.ActiveGoals++
		case models.GoalCompleted:
			summary.CompletedGoals++
		case models.GoalPaused:
			summary.PausedGoals++
		}
		summary.TotalTargetAmount = summary.TotalTargetAmount.Add(goal.TargetAmount)
		summary.TotalSavedAmount = summary.TotalSavedAmount.Add(goal.SavedAmount)
	}
	if summary.TotalTargetAmount.IsPositive() {
		progress := summary.TotalSavedAmount.Div(summary.TotalTargetAmount).Mul(decimal.NewFromInt(100))
		summary.OverallProgress = int(progress.Round(0).IntPart())
	}
	return summary, nil
}

func (s *goalService) GetOverdueGoals(userID uint) ([]models.GoalResponse, error) {
	var goals []models.Goal
	err := s.db.Where("user_id = ? AND target_date < ? AND status <> ?",
		userID, s.now(), models.GoalCompleted).Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return s.enrichAll(goals), nil
}

func (s *goalService) enrichAll(goals []models.Goal) []models.GoalResponse {
	now := s.now()
	responses := make([]models.GoalResponse, 0, len(goals))
	for _, goal := range goals {
		responses = append(responses, goal.Enrich(now))
	}
	return responses
}
