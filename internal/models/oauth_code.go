package models

import (
	"time"
)

// OAuthCode is an authorization code issued to a registered client. The
// first-party login flows do not mint codes, but the token store must be
// able to persist them for clients using the authorization_code grant.
type OAuthCode struct {
	Code                string `gorm:"primaryKey"`
	ClientID            string `gorm:"not null"`
	UserID              string `gorm:"not null"`
	Scopes              string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	ExpiresAt           time.Time `gorm:"not null"`
	CreatedAt           time.Time
}

func (OAuthCode) TableName() string {
	return "oauth_codes"
}
