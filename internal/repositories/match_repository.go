package repositories

import (
	"errors"

	"talentflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMatchNotFound = errors.New("match result not found")

type MatchRepository interface {
	// Upsert stores the score for one (application, requirement) pair,
	// replacing any previous computation.
	Upsert(match *models.MatchResult) error

	FindByPair(applicationID, requirementID string) (*models.MatchResult, error)
	FindByApplication(applicationID string) ([]models.MatchResult, error)
	FindByRequirement(requirementID string) ([]models.MatchResult, error)
}

type MatchRepositoryImpl struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &MatchRepositoryImpl{db: db}
}

func (r *MatchRepositoryImpl) Upsert(match *models.MatchResult) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "application_id"}, {Name: "job_requirement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"match_score", "skills_match", "experience_match", "education_match",
			"recommendation", "strengths", "missing_skills", "updated_at",
		}),
	}).Create(match).Error
}

func (r *MatchRepositoryImpl) FindByPair(applicationID, requirementID string) (*models.MatchResult, error) {
	var match models.MatchResult
	err := r.db.First(&match, "application_id = ? AND job_requirement_id = ?", applicationID, requirementID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindByApplication(applicationID string) ([]models.MatchResult, error) {
	var matches []models.MatchResult
	err := r.db.Where("application_id = ?", applicationID).
		Order("match_score DESC").
		Find(&matches).Error
	return matches, err
}

func (r *MatchRepositoryImpl) FindByRequirement(requirementID string) ([]models.MatchResult, error) {
	var matches []models.MatchResult
	err := r.db.Where("job_requirement_id = ?", requirementID).
		Order("match_score DESC").
		Find(&matches).Error
	return matches, err
}
