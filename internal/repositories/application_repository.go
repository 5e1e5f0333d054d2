package repositories

import (
	"errors"
	"time"

	"talentflow_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrStatusConflict      = errors.New("application status changed concurrently")
)

type ApplicationRepository interface {
	FindByID(id string) (*models.Application, error)
	FindByRequirement(requirementID string, statuses []models.ApplicationStatus) ([]models.Application, error)

	// SetStatus applies a conditional transition. Zero rows affected
	// means another writer got there first; callers must treat
	// ErrStatusConflict as a lost claim, not overwrite.
	SetStatus(id string, from, to models.ApplicationStatus) error

	// UpdateContent stores the resume text and cover letter the caller
	// submitted for evaluation.
	UpdateContent(id, resumeText, coverLetter string) error

	FindStale(status models.ApplicationStatus, olderThan time.Time) ([]models.Application, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var app models.Application
	err := r.db.Preload("Candidate").Preload("JobRequirement").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByRequirement(requirementID string, statuses []models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	query := r.db.Preload("Candidate").Preload("JobRequirement").
		Where("job_requirement_id = ?", requirementID)

	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	err := query.Order("created_at ASC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) SetStatus(id string, from, to models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *ApplicationRepositoryImpl) UpdateContent(id, resumeText, coverLetter string) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_text":  resumeText,
			"cover_letter": coverLetter,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindStale(status models.ApplicationStatus, olderThan time.Time) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Candidate").Preload("JobRequirement").
		Where("status = ? AND updated_at < ?", status, olderThan).
		Order("updated_at ASC").
		Find(&apps).Error
	return apps, err
}
