package repositories

import (
	"errors"

	"talentflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAnalysisNotFound = errors.New("analysis result not found")

type AnalysisRepository interface {
	// PersistEvaluation atomically stores the analysis result, replaces
	// the application's extracted skills and moves the application from
	// analyzing to analyzed. Either everything lands or nothing does.
	PersistEvaluation(result *models.AnalysisResult, skills []models.Skill) error

	FindByApplicationID(applicationID string) (*models.AnalysisResult, error)
	FindSkills(applicationID string) ([]models.Skill, error)
}

type AnalysisRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

func (r *AnalysisRepositoryImpl) PersistEvaluation(result *models.AnalysisResult, skills []models.Skill) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Re-analysis replaces the previous result wholesale.
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"skills_score", "experience_score", "education_score", "overall_score",
				"recommendations", "summary", "experience_detail", "education_detail",
				"updated_at",
			}),
		}).Create(result).Error
		if err != nil {
			return err
		}

		// Full skill replacement: stale extractions must not survive.
		if err := tx.Where("application_id = ?", result.ApplicationID).
			Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		if len(skills) > 0 {
			if err := tx.CreateInBatches(skills, 100).Error; err != nil {
				return err
			}
		}

		statusUpdate := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", result.ApplicationID, models.ApplicationStatusAnalyzing).
			Update("status", models.ApplicationStatusAnalyzed)
		if statusUpdate.Error != nil {
			return statusUpdate.Error
		}
		if statusUpdate.RowsAffected == 0 {
			return ErrStatusConflict
		}

		return nil
	})
}

func (r *AnalysisRepositoryImpl) FindByApplicationID(applicationID string) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	err := r.db.First(&result, "application_id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *AnalysisRepositoryImpl) FindSkills(applicationID string) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.Where("application_id = ?", applicationID).
		Order("name ASC").
		Find(&skills).Error
	return skills, err
}
