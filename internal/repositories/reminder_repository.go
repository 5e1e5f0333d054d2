package repositories

import (
	"talentflow_backend/internal/models"

	"gorm.io/gorm"
)

type ReminderRepository interface {
	// SentReminderExists is the sweep's idempotency check: true when a
	// sent reminder of this type already exists for the application.
	// Overlapping sweeps rely on this check, not on mutual exclusion.
	SentReminderExists(applicationID, reminderType string) (bool, error)

	Create(reminder *models.Reminder) error
	FindByApplication(applicationID string) ([]models.Reminder, error)
}

type ReminderRepositoryImpl struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &ReminderRepositoryImpl{db: db}
}

func (r *ReminderRepositoryImpl) SentReminderExists(applicationID, reminderType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reminder{}).
		Where("application_id = ? AND type = ? AND status = ?",
			applicationID, reminderType, models.ReminderStatusSent).
		Count(&count).Error
	return count > 0, err
}

func (r *ReminderRepositoryImpl) Create(reminder *models.Reminder) error {
	return r.db.Create(reminder).Error
}

func (r *ReminderRepositoryImpl) FindByApplication(applicationID string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&reminders).Error
	return reminders, err
}
