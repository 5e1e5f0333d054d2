package services

import (
	"talentflow_backend/internal/classify"
	"talentflow_backend/internal/config"
	"talentflow_backend/internal/email"
	"talentflow_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AnalysisService     AnalysisService
	MatchingService     MatchingService
	NotificationService NotificationService
	ReminderService     ReminderService
	EmailProvider       email.Provider
}

// NewServiceContainer wires repositories and services over the shared
// connection pool.
func NewServiceContainer(db *gorm.DB, classifier classify.Provider, emailProvider email.Provider, cfg *config.Config) *ServiceContainer {
	applicationRepo := repositories.NewApplicationRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	requirementRepo := repositories.NewRequirementRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	notificationService := NewNotificationService(
		notificationRepo,
		emailProvider,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
		cfg.Notifications.MaxRetries,
	)

	return &ServiceContainer{
		AnalysisService:     NewAnalysisService(applicationRepo, analysisRepo, classifier, notificationService, cfg),
		MatchingService:     NewMatchingService(applicationRepo, analysisRepo, requirementRepo, matchRepo, cfg),
		NotificationService: notificationService,
		ReminderService:     NewReminderService(applicationRepo, reminderRepo, userRepo, notificationService, cfg),
		EmailProvider:       emailProvider,
	}
}
