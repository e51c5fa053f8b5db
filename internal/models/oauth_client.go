package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is a registered API client. In practice there is a single
// first-party web client; the table exists so additional clients (mobile,
// integrations) can be added without schema changes.
type OAuthClient struct {
	ID          string `gorm:"primaryKey"`
	Secret      string `gorm:"not null"` // bcrypt hash
	Name        string
	Domain      string
	Scopes      string // space-separated
	GrantTypes  string
	RedirectURI string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// GetID implements oauth2.ClientInfo
func (c *OAuthClient) GetID() string { return c.ID }

// GetSecret implements oauth2.ClientInfo
func (c *OAuthClient) GetSecret() string { return c.Secret }

// GetDomain implements oauth2.ClientInfo
func (c *OAuthClient) GetDomain() string { return c.Domain }

// GetUserID implements oauth2.ClientInfo; first-party clients are not
// bound to a user.
func (c *OAuthClient) GetUserID() string { return "" }

// IsPublic implements oauth2.ClientInfo
func (c *OAuthClient) IsPublic() bool { return false }

// VerifyPassword implements oauth2.ClientPasswordVerifier. Secrets are
// stored as bcrypt hashes, never compared as plaintext.
func (c *OAuthClient) VerifyPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(plain)) == nil
}
