package models

import (
	"time"
)

// OAuthToken is a persisted session token pair. Access tokens are JWTs and
// validated statelessly; the row exists so refresh tokens can be looked up
// and sessions revoked.
type OAuthToken struct {
	ID               uint   `gorm:"primaryKey"`
	ClientID         string `gorm:"not null"`
	UserID           *string
	AccessToken      string `gorm:"uniqueIndex;not null"`
	RefreshToken     *string
	Scopes           string
	ExpiresAt        time.Time `gorm:"not null"`
	RefreshExpiresAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
