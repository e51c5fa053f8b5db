package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending limit
type Budget struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	UserID   uint            `gorm:"index;not null" json:"userId"`
	Category string          `gorm:"size:30;not null" json:"category"`
	Limit    decimal.Decimal `gorm:"type:decimal(12,2);not null;column:monthly_limit" json:"limit"`
	Year     int             `gorm:"not null" json:"year"`
	Month    time.Month      `gorm:"not null" json:"month"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Budget) TableName() string {
	return "budgets"
}

// BudgetStatus is a Budget enriched with actual spend for its month
type BudgetStatus struct {
	Budget
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	OverBudget bool            `json:"overBudget"`
}
