package repositories

import (
	"talentflow_backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	// FindActiveStaff returns active users holding any of the given
	// roles. The reminder sweep uses this to resolve alert recipients.
	FindActiveStaff(roles []models.UserRole) ([]models.User, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindActiveStaff(roles []models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role IN ? AND is_active = ?", roles, true).
		Order("email ASC").
		Find(&users).Error
	return users, err
}
