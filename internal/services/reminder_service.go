package services

import (
	"context"
	"strconv"
	"time"

	"talentflow_backend/internal/config"
	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/services/dto"
	"talentflow_backend/pkg/apperrors"
)

// staffRoles are the recipients of stale-application reminders.
var staffRoles = []models.UserRole{
	models.UserRoleRecruiter,
	models.UserRoleManager,
	models.UserRoleAdmin,
}

type ReminderService interface {
	// SweepStaleApplications finds applications stuck in reviewed past
	// the staleness threshold and sends one reminder per application.
	// Per-recipient failures are counted, never abort the sweep.
	SweepStaleApplications(ctx context.Context) (*dto.SweepResponse, error)
}

type reminderService struct {
	applicationRepo repositories.ApplicationRepository
	reminderRepo    repositories.ReminderRepository
	userRepo        repositories.UserRepository
	notifier        NotificationService
	cfg             *config.Config
}

func NewReminderService(
	applicationRepo repositories.ApplicationRepository,
	reminderRepo repositories.ReminderRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	cfg *config.Config,
) ReminderService {
	return &reminderService{
		applicationRepo: applicationRepo,
		reminderRepo:    reminderRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		cfg:             cfg,
	}
}

func (s *reminderService) SweepStaleApplications(ctx context.Context) (*dto.SweepResponse, error) {
	staleAfter := time.Duration(s.cfg.Reminders.StaleAfterHours) * time.Hour
	cutoff := time.Now().Add(-staleAfter)

	apps, err := s.applicationRepo.FindStale(models.ApplicationStatusReviewed, cutoff)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "reminder")
	}

	staff, err := s.userRepo.FindActiveStaff(staffRoles)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "reminder")
	}
	if len(staff) == 0 {
		logger.CtxWarn(ctx, "Reminder sweep found no active staff recipients")
	}

	response := &dto.SweepResponse{}

	for i := range apps {
		app := &apps[i]
		response.ApplicationsProcessed++

		// Idempotency guard: overlapping or repeated sweeps must not
		// re-remind the same application.
		exists, err := s.reminderRepo.SentReminderExists(app.ID, repositories.NotificationTypeStaffReminder)
		if err != nil {
			logger.CtxError(ctx, "Reminder existence check failed",
				"application_id", app.ID, "error", err.Error())
			continue
		}
		if exists {
			continue
		}

		for _, recipient := range staff {
			vars := s.reminderVars(recipient, app, len(apps))
			if _, err := s.notifier.Dispatch(ctx, repositories.NotificationTypeStaffReminder, recipient.Email, vars); err != nil {
				logger.CtxWarn(ctx, "Reminder delivery failed",
					"application_id", app.ID,
					"recipient", recipient.Email,
					"error", err.Error(),
				)
				continue
			}
			response.RemindersSent++
		}

		now := time.Now()
		reminder := &models.Reminder{
			ApplicationID: app.ID,
			Type:          repositories.NotificationTypeStaffReminder,
			Status:        models.ReminderStatusSent,
			SentAt:        &now,
		}
		if err := s.reminderRepo.Create(reminder); err != nil {
			logger.CtxError(ctx, "Failed to record sent reminder",
				"application_id", app.ID, "error", err.Error())
			continue
		}
		response.RemindersCreated++
	}

	logger.CtxInfo(ctx, "Reminder sweep completed",
		"applications_processed", response.ApplicationsProcessed,
		"reminders_created", response.RemindersCreated,
		"reminders_sent", response.RemindersSent,
	)

	return response, nil
}

func (s *reminderService) reminderVars(recipient models.User, app *models.Application, staleCount int) map[string]string {
	candidateName := "a candidate"
	if app.Candidate != nil && app.Candidate.Name != "" {
		candidateName = app.Candidate.Name
	}
	jobTitle := "an open role"
	if app.JobRequirement != nil && app.JobRequirement.Title != "" {
		jobTitle = app.JobRequirement.Title
	}

	greeting := "Hello"
	if recipient.Name != "" {
		greeting = "Hello " + recipient.Name
	}

	plural := "s"
	if staleCount == 1 {
		plural = ""
	}

	return map[string]string{
		"greeting":        greeting,
		"candidate_name":  candidateName,
		"job_title":       jobTitle,
		"threshold_hours": strconv.Itoa(s.cfg.Reminders.StaleAfterHours),
		"count":           strconv.Itoa(staleCount),
		"plural":          plural,
	}
}
