package repositories

import (
	"errors"
	"time"

	"talentflow_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTemplateNotFound     = errors.New("notification template not found")
)

// Notification type constants.
const (
	NotificationTypeCandidateMatch = "candidate_match"
	NotificationTypeStaffReminder  = "staff_reminder"
)

// NotificationTemplate is a stored message template. Body and Subject
// may carry {{placeholder}} tokens resolved at dispatch time.
type NotificationTemplate struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Type      string         `gorm:"not null;uniqueIndex" json:"type"`
	Name      string         `gorm:"not null" json:"name"`
	Subject   string         `gorm:"not null" json:"subject"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Variables datatypes.JSON `gorm:"type:jsonb" json:"variables,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type NotificationRepository interface {
	// Record operations
	CreateRecord(record *models.NotificationRecord) error
	FindRecordByID(id string) (*models.NotificationRecord, error)
	FindRecords(criteria NotificationCriteria) ([]models.NotificationRecord, int64, error)

	// ClaimRetry performs the compare-and-swap retry increment: the
	// update lands only if the stored retry_count still equals
	// expectedRetryCount and the record is not already sent. Returns
	// false when the guard fails; the caller re-reads and re-decides.
	ClaimRetry(id string, expectedRetryCount int) (bool, error)

	MarkSent(id string) error
	MarkFailed(id string, errorMessage string) error

	// Template operations
	CreateTemplate(template *NotificationTemplate) error
	FindTemplateByID(id string) (*NotificationTemplate, error)
	FindActiveTemplateByType(notificationType string) (*NotificationTemplate, error)
	ListTemplates() ([]NotificationTemplate, error)
	UpdateTemplate(template *NotificationTemplate) error
	DeleteTemplate(id string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// NotificationCriteria filters record listings.
type NotificationCriteria struct {
	Type     string                    `form:"type"`
	Status   models.NotificationStatus `form:"status"`
	Page     int                       `form:"page" binding:"omitempty,min=1"`
	PageSize int                       `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

// Record operations

func (r *NotificationRepositoryImpl) CreateRecord(record *models.NotificationRecord) error {
	return r.db.Create(record).Error
}

func (r *NotificationRepositoryImpl) FindRecordByID(id string) (*models.NotificationRecord, error) {
	var record models.NotificationRecord
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *NotificationRepositoryImpl) FindRecords(criteria NotificationCriteria) ([]models.NotificationRecord, int64, error) {
	var records []models.NotificationRecord
	query := r.db.Model(&models.NotificationRecord{})

	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&records).Error

	return records, total, err
}

func (r *NotificationRepositoryImpl) ClaimRetry(id string, expectedRetryCount int) (bool, error) {
	now := time.Now()
	result := r.db.Model(&models.NotificationRecord{}).
		Where("id = ? AND retry_count = ? AND status <> ?",
			id, expectedRetryCount, models.NotificationStatusSent).
		Updates(map[string]interface{}{
			"retry_count":   expectedRetryCount + 1,
			"last_retry_at": now,
			"status":        models.NotificationStatusPending,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) MarkSent(id string) error {
	result := r.db.Model(&models.NotificationRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.NotificationStatusSent,
			"error_message": "",
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkFailed(id string, errorMessage string) error {
	result := r.db.Model(&models.NotificationRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.NotificationStatusFailed,
			"error_message": errorMessage,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Template operations

func (r *NotificationRepositoryImpl) CreateTemplate(template *NotificationTemplate) error {
	return r.db.Create(template).Error
}

func (r *NotificationRepositoryImpl) FindTemplateByID(id string) (*NotificationTemplate, error) {
	var template NotificationTemplate
	err := r.db.First(&template, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *NotificationRepositoryImpl) FindActiveTemplateByType(notificationType string) (*NotificationTemplate, error) {
	var template NotificationTemplate
	err := r.db.Where("type = ? AND is_active = ?", notificationType, true).
		Order("updated_at DESC").
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *NotificationRepositoryImpl) ListTemplates() ([]NotificationTemplate, error) {
	var templates []NotificationTemplate
	err := r.db.Order("type ASC, updated_at DESC").Find(&templates).Error
	return templates, err
}

func (r *NotificationRepositoryImpl) UpdateTemplate(template *NotificationTemplate) error {
	result := r.db.Model(&NotificationTemplate{}).
		Where("id = ?", template.ID).
		Updates(map[string]interface{}{
			"name":      template.Name,
			"subject":   template.Subject,
			"body":      template.Body,
			"variables": template.Variables,
			"is_active": template.IsActive,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteTemplate(id string) error {
	result := r.db.Delete(&NotificationTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
