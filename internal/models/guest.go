package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestTransaction is a transaction accumulated before authentication.
// The LocalID is client-generated and distinct from server-assigned ids;
// the wire format keeps the original "_id" key.
type GuestTransaction struct {
	LocalID       string          `json:"_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// GuestGoal is a savings goal accumulated before authentication
type GuestGoal struct {
	LocalID      string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Priority     string          `json:"priority,omitempty"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	TargetDate   time.Time       `json:"targetDate"`
	Description  string          `json:"description,omitempty"`
}

// GuestData bundles both guest collections for one-shot transfer
type GuestData struct {
	Transactions []GuestTransaction `json:"transactions"`
	Goals        []GuestGoal        `json:"goals"`
}

// MigrationResult reports what a guest-data transfer inserted
type MigrationResult struct {
	TransactionsMigrated int `json:"transactionsMigrated"`
	GoalsMigrated        int `json:"goalsMigrated"`
}
