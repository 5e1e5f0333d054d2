package repositories

import (
	"errors"

	"talentflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRequirementNotFound = errors.New("job requirement not found")

type RequirementRepository interface {
	FindByID(id string) (*models.JobRequirement, error)
}

type RequirementRepositoryImpl struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &RequirementRepositoryImpl{db: db}
}

func (r *RequirementRepositoryImpl) FindByID(id string) (*models.JobRequirement, error) {
	var requirement models.JobRequirement
	err := r.db.First(&requirement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}
	return &requirement, nil
}
