package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

// ReminderService manages a user's dated notifications
type ReminderService interface {
	GetReminders(userID uint) ([]models.ReminderResponse, error)
	GetReminderByID(userID, id uint) (models.ReminderResponse, error)
	CreateReminder(reminder models.Reminder) (models.ReminderResponse, error)
	UpdateReminder(reminder models.Reminder) (models.ReminderResponse, error)
	DeleteReminder(userID, id uint) error
	GetUpcomingReminders(userID uint, within time.Duration) ([]models.ReminderResponse, error)
	CountReminders(userID uint) (models.ReminderCount, error)
}

type reminderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReminderService(db *gorm.DB) ReminderService {
	return &reminderService{db: db, now: time.Now}
}

func (s *reminderService) GetReminders(userID uint) ([]models.ReminderResponse, error) {
	var reminders []models.Reminder
	if err := s.db.Where("user_id = ?", userID).Order("date ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return s.enrichAll(reminders), nil
}

func (s *reminderService) GetReminderByID(userID, id uint) (models.ReminderResponse, error) {
	var reminder models.Reminder
	if err := s.db.Where("user_id = ?", userID).First(&reminder, id).Error; err != nil {
		return models.ReminderResponse{}, err
	}
	return reminder.Enrich(s.now()), nil
}

func (s *reminderService) CreateReminder(reminder models.Reminder) (models.ReminderResponse, error) {
	if reminder.CalendarEventID == "" {
		reminder.CalendarEventID = uuid.New().String()
	}
	if err := s.db.Create(&reminder).Error; err != nil {
		return models.ReminderResponse{}, err
	}
	return reminder.Enrich(s.now()), nil
}

func (s *reminderService) UpdateReminder(reminder models.Reminder) (models.ReminderResponse, error) {
	// The row must already belong to the caller; Save alone would adopt
	// (or create) rows it never matched
	var existing models.Reminder
	if err := s.db.Where("user_id = ?", reminder.UserID).First(&existing, reminder.ID).Error; err != nil {
		return models.ReminderResponse{}, err
	}

	reminder.CreatedAt = existing.CreatedAt
	if reminder.CalendarEventID == "" {
		reminder.CalendarEventID = existing.CalendarEventID
	}

	if err := s.db.Save(&reminder).Error; err != nil {
		return models.ReminderResponse{}, err
	}
	return reminder.Enrich(s.now()), nil
}

func (s *reminderService) DeleteReminder(userID, id uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Reminder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *reminderService) GetUpcomingReminders(userID uint, within time.Duration) ([]models.ReminderResponse, error) {
	now := s.now()
	var reminders []models.Reminder
	err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, now, now.Add(within)).
		Order("date ASC").Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return s.enrichAll(reminders), nil
}

func (s *reminderService) CountReminders(userID uint) (models.ReminderCount, error) {
	var reminders []models.Reminder
	if err := s.db.Where("user_id = ?", userID).Find(&reminders).Error; err != nil {
		return models.ReminderCount{}, err
	}

	now := s.now()
	count := models.ReminderCount{Total: len(reminders)}
	for _, reminder := range reminders {
		resp := reminder.Enrich(now)
		switch {
		case resp.IsToday:
			count.Today++
		case resp.IsOverdue:
			count.Overdue++
		default:
			count.Upcoming++
		}
	}
	return count, nil
}

func (s *reminderService) enrichAll(reminders []models.Reminder) []models.ReminderResponse {
	now := s.now()
	responses := make([]models.ReminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		responses = append(responses, reminder.Enrich(now))
	}
	return responses
}
