package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

const (
	testJWTSecret    = "test-jwt-secret-key-32-characters"
	testClientID     = "test-web-client"
	testClientSecret = "test-web-secret"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.OAuthClient{}, &models.OAuthToken{}, &models.OAuthCode{})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testClientSecret), bcrypt.DefaultCost)
	require.NoError(t, err)

	client := &models.OAuthClient{
		ID:         testClientID,
		Secret:     string(hash),
		Name:       "Test Web Client",
		Domain:     "http://localhost",
		Scopes:     "read write",
		GrantTypes: "implicit refresh_token",
	}
	require.NoError(t, db.Create(client).Error)

	return db
}

func createSessionTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	user := &models.User{
		Username: "Session Tester",
		Email:    "session@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateSessionIssuesTokenPair(t *testing.T) {
	db := setupSessionTestDB(t)
	user := createSessionTestUser(t, db, "user")

	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	pair, err := sm.CreateSession(context.Background(), user)
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Greater(t, pair.ExpiresIn, int64(0))
}

func TestSessionAccessTokenClaims(t *testing.T) {
	db := setupSessionTestDB(t)
	user := createSessionTestUser(t, db, "admin")

	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	pair, err := sm.CreateSession(context.Background(), user)
	require.NoError(t, err)

	token, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	assert.Equal(t, "1", claims["uid"])
	// Role always comes from the users table, never from the caller
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, testClientID, claims["aud"])
	assert.Equal(t, "read write", claims["scope"])
}

func TestSessionRefreshRotatesTokens(t *testing.T) {
	db := setupSessionTestDB(t)
	user := createSessionTestUser(t, db, "user")

	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	pair, err := sm.CreateSession(context.Background(), user)
	require.NoError(t, err)

	refreshed, err := sm.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, refreshed)

	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
}

func TestSessionRefreshRejectsGarbage(t *testing.T) {
	db := setupSessionTestDB(t)

	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	_, err := sm.Refresh(context.Background(), "not-a-real-refresh-token")
	assert.Error(t, err)
}

func TestSessionRevoke(t *testing.T) {
	db := setupSessionTestDB(t)
	user := createSessionTestUser(t, db, "user")

	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	pair, err := sm.CreateSession(context.Background(), user)
	require.NoError(t, err)

	err = sm.Revoke(context.Background(), pair.AccessToken)
	assert.NoError(t, err)

	// The stored token row backs refresh; a revoked session cannot refresh
	_, err = sm.Refresh(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}

func TestCreateSessionRequiresRegisteredClient(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.OAuthClient{}, &models.OAuthToken{}, &models.OAuthCode{}))

	user := createSessionTestUser(t, db, "user")

	// No client row seeded
	sm := NewSessionManager(db, testJWTSecret, testClientID, testClientSecret)

	_, err = sm.CreateSession(context.Background(), user)
	assert.Error(t, err)
}
