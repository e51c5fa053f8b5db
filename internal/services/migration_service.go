package services

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/finwiseapp/gin-finance-api/internal/models"
)

// MigrationService transfers anonymously accumulated guest data into an
// authenticated account. The transfer itself is transactional; whether it
// runs at most once is decided by the client holding the migration flag.
type MigrationService interface {
	MigrateGuestData(userID uint, data models.GuestData) (models.MigrationResult, error)
}

type migrationService struct {
	db *gorm.DB
}

func NewMigrationService(db *gorm.DB) MigrationService {
	return &migrationService{db: db}
}

func (s *migrationService) MigrateGuestData(userID uint, data models.GuestData) (models.MigrationResult, error) {
	var result models.MigrationResult
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, guestTxn := range data.Transactions {
			txn := models.Transaction{
				UserID:          userID,
				Description:     guestTxn.Description,
				Amount:          guestTxn.Amount,
				Type:            guestTxn.Type,
				Category:        guestTxn.Category,
				Date:            guestTxn.Date,
				PaymentMethod:   guestTxn.PaymentMethod,
				Tags:            guestTxn.Tags,
				Notes:           guestTxn.Notes,
				Source:          models.SourceGuestMigration,
				IsGuestMigrated: true,
				MigratedAt:      &now,
			}
			if txn.PaymentMethod == "" {
				txn.PaymentMethod = "Other"
			}
			if txn.Date.IsZero() {
				txn.Date = now
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			result.TransactionsMigrated++
		}

		for _, guestGoal := range data.Goals {
			goal := models.Goal{
				UserID:          userID,
				Name:            guestGoal.Name,
				Category:        guestGoal.Category,
				Priority:        guestGoal.Priority,
				TargetAmount:    guestGoal.TargetAmount,
				SavedAmount:     guestGoal.SavedAmount,
				TargetDate:      guestGoal.TargetDate,
				Status:          models.GoalActive,
				Description:     guestGoal.Description,
				IsGuestMigrated: true,
				MigratedAt:      &now,
			}
			if goal.Priority == "" {
				goal.Priority = "Medium"
			}
			if err := tx.Create(&goal).Error; err != nil {
				return err
			}
			result.GoalsMigrated++
		}

		return nil
	})
	if err != nil {
		return models.MigrationResult{}, err
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"transactions": result.TransactionsMigrated,
		"goals":        result.GoalsMigrated,
	}).Info("Guest data migrated")

	return result, nil
}
