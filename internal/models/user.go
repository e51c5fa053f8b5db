package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Supported auth providers
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// UserPreferences holds per-user display settings
type UserPreferences struct {
	Currency string `gorm:"size:3;default:'INR'" json:"currency"`
	Language string `gorm:"size:2;default:'en'" json:"language"`
	Theme    string `gorm:"size:10;default:'light'" json:"theme"`
}

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:30" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	// Password is the bcrypt hash. Empty for Google-only accounts.
	Password string `gorm:"size:60" json:"-"`

	// GoogleID is the provider subject identifier, set once the account
	// is linked to a Google identity.
	GoogleID     *string `gorm:"uniqueIndex" json:"-"`
	AuthProvider string  `gorm:"size:10;default:'email'" json:"authProvider"`

	Role     string `gorm:"size:10;default:'user'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
	LastLoginProvider string     `gorm:"size:10;default:'email'" json:"lastLoginProvider"`

	Preferences UserPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HashPassword replaces the plaintext Password field with its bcrypt hash
func (u *User) HashPassword() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
// Google-only accounts have no hash and always fail the check.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
