package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

var (
	ErrUserAlreadyExists = errors.New("user_already_exists")
	ErrGoogleIDLinked    = errors.New("google_account_already_linked")
)

type UserService interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByGoogleID(googleID string) (*models.User, error)
	// FindOrCreateGoogleUser resolves a Google profile to a local account,
	// creating one or linking the identity to an existing email account.
	FindOrCreateGoogleUser(googleID, email, name string) (*models.User, error)
	UpdateLastLogin(id uint, provider string) error
	UpdatePreferences(id uint, prefs models.UserPreferences) error
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(user *models.User) error {
	var existing models.User
	if err := s.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return s.db.Create(user).Error
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) FindOrCreateGoogleUser(googleID, email, name string) (*models.User, error) {
	// Already linked: fastest path
	if user, err := s.GetUserByGoogleID(googleID); err == nil {
		return user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// An email account may predate the Google login; link the identity
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.GoogleID != nil && *user.GoogleID != googleID {
			return nil, ErrGoogleIDLinked
		}
		user.GoogleID = &googleID
		if err := s.db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     name,
			Email:        email,
			GoogleID:     &googleID,
			AuthProvider: models.AuthProviderGoogle,
			Role:         "user",
			IsActive:     true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil

	default:
		return nil, err
	}
}

func (s *userService) UpdateLastLogin(id uint, provider string) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_login_at":       now,
		"last_login_provider": provider,
	}).Error
}

func (s *userService) UpdatePreferences(id uint, prefs models.UserPreferences) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"pref_currency": prefs.Currency,
		"pref_language": prefs.Language,
		"pref_theme":    prefs.Theme,
	}).Error
}
