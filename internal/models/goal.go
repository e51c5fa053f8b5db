package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal statuses
const (
	GoalActive    = "Active"
	GoalCompleted = "Completed"
	GoalPaused    = "Paused"
)

// GoalCategories is the closed list of accepted goal categories
var GoalCategories = []string{
	"Savings", "Travel", "Transportation", "Technology", "Emergency",
	"Investment", "Home", "Education", "Health", "Other",
}

type Goal struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"userId"`
	Name   string `gorm:"size:50;not null" json:"name"`

	Category string `gorm:"size:20;not null" json:"category"`
	Priority string `gorm:"size:10;default:'Medium'" json:"priority"`

	TargetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"targetAmount"`
	SavedAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"savedAmount"`
	TargetDate   time.Time       `json:"targetDate"`

	Status        string     `gorm:"size:10;default:'Active'" json:"status"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Description   string     `gorm:"size:200" json:"description,omitempty"`

	IsGuestMigrated bool       `json:"isGuestMigrated"`
	MigratedAt      *time.Time `json:"migratedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Goal) TableName() string {
	return "goals"
}

// GoalResponse is a Goal enriched with server-calculated fields
type GoalResponse struct {
	Goal
	ProgressPercentage int             `json:"progressPercentage"`
	RemainingAmount    decimal.Decimal `json:"remainingAmount"`
	DaysRemaining      int             `json:"daysRemaining"`
	IsOverdue          bool            `json:"isOverdue"`
}

// Enrich computes the virtual fields for a goal as of now
func (g Goal) Enrich(now time.Time) GoalResponse {
	resp := GoalResponse{Goal: g}

	if g.TargetAmount.IsPositive() {
		pct := g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
		resp.ProgressPercentage = int(pct.Round(0).IntPart())
	}

	remaining := g.TargetAmount.Sub(g.SavedAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	resp.RemainingAmount = remaining

	resp.DaysRemaining = int(g.TargetDate.Sub(now).Hours() / 24)
	resp.IsOverdue = resp.DaysRemaining < 0 && g.Status != GoalCompleted

	return resp
}

// GoalSummary aggregates a user's goals
type GoalSummary struct {
	TotalGoals        int             `json:"totalGoals"`
	ActiveGoals       int             `json:"activeGoals"`
	CompletedGoals    int             `json:"completedGoals"`
	PausedGoals       int             `json:"pausedGoals"`
	TotalTargetAmount decimal.Decimal `json:"totalTargetAmount"`
	TotalSavedAmount  decimal.Decimal `json:"totalSavedAmount"`
	OverallProgress   int             `json:"overallProgress"`
}

// ValidGoalCategory reports whether c is one of the accepted goal categories
func ValidGoalCategory(c string) bool {
	for _, v := range GoalCategories {
		if v == c {
			return true
		}
	}
	return false
}
