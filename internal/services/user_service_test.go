package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

func TestFindOrCreateGoogleUser(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	t.Run("creates a new account", func(t *testing.T) {
		user, err := svc.FindOrCreateGoogleUser("g-100", "new@example.com", "New User")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, models.AuthProviderGoogle, user.AuthProvider)
		require.NotNil(t, user.GoogleID)
		assert.Equal(t, "g-100", *user.GoogleID)
	})

	t.Run("resolves an existing linked account", func(t *testing.T) {
		first, err := svc.FindOrCreateGoogleUser("g-100", "new@example.com", "New User")
		require.NoError(t, err)
		again, err := svc.FindOrCreateGoogleUser("g-100", "new@example.com", "New User")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("links a pre-existing email account", func(t *testing.T) {
		email := &models.User{
			Email:        "email-first@example.com",
			Password:     "irrelevant-hash",
			AuthProvider: models.AuthProviderEmail,
		}
		require.NoError(t, db.Create(email).Error)

		linked, err := svc.FindOrCreateGoogleUser("g-200", "email-first@example.com", "Email First")
		require.NoError(t, err)
		assert.Equal(t, email.ID, linked.ID)
		require.NotNil(t, linked.GoogleID)
		assert.Equal(t, "g-200", *linked.GoogleID)
	})

	t.Run("rejects relinking to a different Google identity", func(t *testing.T) {
		_, err := svc.FindOrCreateGoogleUser("g-999", "email-first@example.com", "Imposter")
		assert.ErrorIs(t, err, ErrGoogleIDLinked)
	})
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	require.NoError(t, svc.CreateUser(&models.User{Email: "dup@example.com", Password: "x"}))
	err := svc.CreateUser(&models.User{Email: "dup@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdatePreferences(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	user := &models.User{Email: "prefs@example.com"}
	require.NoError(t, db.Create(user).Error)

	err := svc.UpdatePreferences(user.ID, models.UserPreferences{
		Currency: "USD",
		Language: "es",
		Theme:    "dark",
	})
	require.NoError(t, err)

	fetched, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", fetched.Preferences.Currency)
	assert.Equal(t, "dark", fetched.Preferences.Theme)
}
