package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

// TokenPair is the session credential set handed to a logged-in client
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// SessionManager establishes and revokes authenticated sessions. Access
// tokens are JWTs generated through the OAuth2 manager; the pair is also
// persisted so refresh tokens resolve and sessions can be revoked.
type SessionManager struct {
	manager      *manage.Manager
	clientID     string
	clientSecret string
}

// NewSessionManager wires the token manager against the database-backed
// client and token stores. clientID/clientSecret identify the first-party
// web client that session tokens are issued under.
func NewSessionManager(db *gorm.DB, jwtSecret, clientID, clientSecret string) *SessionManager {
	manager := manage.NewDefaultManager()

	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512, db))
	manager.SetImplicitTokenCfg(&manage.Config{
		AccessTokenExp:    time.Hour,
		RefreshTokenExp:   30 * 24 * time.Hour,
		IsGenerateRefresh: true,
	})

	manager.MustTokenStorage(NewGormTokenStore(db), nil)
	manager.MapClientStorage(NewGormClientStore(db))

	return &SessionManager{
		manager:      manager,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// CreateSession issues a token pair for an authenticated user
func (m *SessionManager) CreateSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	ti, err := m.manager.GenerateAccessToken(ctx, oauth2.Implicit, &oauth2.TokenGenerateRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		UserID:       strconv.FormatUint(uint64(user.ID), 10),
		Scope:        "read write",
	})
	if err != nil {
		return nil, fmt.Errorf("session creation failed: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"client":  m.clientID,
	}).Info("Session created")

	return pairFromTokenInfo(ti), nil
}

// Refresh rotates a refresh token into a new token pair
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ti, err := m.manager.RefreshAccessToken(ctx, &oauth2.TokenGenerateRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		Refresh:      refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("session refresh failed: %w", err)
	}
	return pairFromTokenInfo(ti), nil
}

// Revoke removes the session backing an access token
func (m *SessionManager) Revoke(ctx context.Context, accessToken string) error {
	return m.manager.RemoveAccessToken(ctx, accessToken)
}

func pairFromTokenInfo(ti oauth2.TokenInfo) *TokenPair {
	return &TokenPair{
		AccessToken:  ti.GetAccess(),
		RefreshToken: ti.GetRefresh(),
		TokenType:    "Bearer",
		ExpiresIn:    int64(ti.GetAccessExpiresIn() / time.Second),
	}
}
