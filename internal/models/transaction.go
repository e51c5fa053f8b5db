package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionIncome  = "Income"
	TransactionExpense = "Expense"
)

// TransactionCategories is the closed list of accepted categories
var TransactionCategories = []string{
	"Salary", "Freelance", "Bonus", "Investment", "Other Income",
	"Food", "Transportation", "Shopping", "Entertainment", "Utilities",
	"Healthcare", "Education", "Travel", "Insurance", "Rent", "Other Expense",
}

// PaymentMethods is the closed list of accepted payment methods
var PaymentMethods = []string{
	"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Digital Wallet", "Other",
}

// Transaction record sources
const (
	SourceManual         = "manual"
	SourceImport         = "import"
	SourceAPI            = "api"
	SourceRecurring      = "recurring"
	SourceGuestMigration = "guest-migration"
)

type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	Description string          `gorm:"size:100;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type        string          `gorm:"size:10;not null" json:"type"`
	Category    string          `gorm:"size:30;not null" json:"category"`
	Date        time.Time       `gorm:"index" json:"date"`

	PaymentMethod string   `gorm:"size:20;default:'Other'" json:"paymentMethod"`
	Tags          []string `gorm:"serializer:json" json:"tags"`
	Notes         string   `gorm:"size:200" json:"notes,omitempty"`

	// GoalID links a contribution transaction to a savings goal
	GoalID *uint `gorm:"index" json:"goalId,omitempty"`

	IsRecurring        bool       `json:"isRecurring"`
	RecurringFrequency string     `gorm:"size:10" json:"recurringFrequency,omitempty"`
	RecurringNextDate  *time.Time `json:"recurringNextDate,omitempty"`
	RecurringEndDate   *time.Time `json:"recurringEndDate,omitempty"`

	Source          string     `gorm:"size:20;default:'manual'" json:"source"`
	IsGuestMigrated bool       `json:"isGuestMigrated"`
	MigratedAt      *time.Time `json:"migratedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// ValidCategory reports whether c is one of the accepted categories
func ValidCategory(c string) bool {
	for _, v := range TransactionCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is one of the accepted payment methods
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// MonthlySummary aggregates a user's transactions over one calendar month
type MonthlySummary struct {
	Year       int                        `json:"year"`
	Month      time.Month                 `json:"month"`
	Income     decimal.Decimal            `json:"income"`
	Expense    decimal.Decimal            `json:"expense"`
	Net        decimal.Decimal            `json:"net"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
	Count      int                        `json:"count"`
}
