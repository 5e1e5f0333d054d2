package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"talentflow_backend/internal/email"
	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/services/dto"
	"talentflow_backend/pkg/apperrors"
)

type NotificationService interface {
	// Dispatch renders the message for the given type, attempts delivery
	// and records the outcome. The returned record is written either
	// way; the error reports a render or delivery failure.
	Dispatch(ctx context.Context, notificationType, recipient string, vars map[string]string) (*models.NotificationRecord, error)

	// RetryNotification re-attempts a failed delivery. Refusals
	// ("already sent", retry budget exhausted) come back as a response
	// with Retried=false, not as errors.
	RetryNotification(ctx context.Context, notificationID string) (*dto.RetryResponse, error)

	GetNotification(notificationID string) (*dto.NotificationResponse, error)
	ListNotifications(criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)

	// Template administration
	CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	GetTemplateByType(notificationType string) (*dto.TemplateResponse, error)
	ListTemplates() ([]*dto.TemplateResponse, error)
	UpdateTemplate(templateID string, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)
	DeleteTemplate(templateID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	provider         email.Provider
	fromEmail        string
	fromName         string
	maxRetries       int
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	provider email.Provider,
	fromEmail, fromName string,
	maxRetries int,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		provider:         provider,
		fromEmail:        fromEmail,
		fromName:         fromName,
		maxRetries:       maxRetries,
	}
}

// ---------------- Dispatch ----------------

func (s *notificationService) Dispatch(ctx context.Context, notificationType, recipient string, vars map[string]string) (*models.NotificationRecord, error) {
	metadata, err := json.Marshal(vars)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("marshal notification variables: %w", err))
	}

	record := &models.NotificationRecord{
		Type:      notificationType,
		Recipient: recipient,
		Status:    models.NotificationStatusPending,
		Metadata:  datatypes.JSON(metadata),
	}

	subject, body, renderErr := s.resolveContent(ctx, notificationType, vars)
	if renderErr != nil {
		record.Subject = notificationType
		record.Status = models.NotificationStatusFailed
		record.ErrorMessage = renderErr.Error()
		if err := s.notificationRepo.CreateRecord(record); err != nil {
			return nil, apperrors.ErrPersistence(err, "notification")
		}
		return record, apperrors.InternalError(renderErr)
	}

	record.Subject = subject
	sendErr := s.send(recipient, subject, body)
	if sendErr != nil {
		record.Status = models.NotificationStatusFailed
		record.ErrorMessage = sendErr.Error()
	} else {
		record.Status = models.NotificationStatusSent
	}

	if err := s.notificationRepo.CreateRecord(record); err != nil {
		return nil, apperrors.ErrPersistence(err, "notification")
	}

	if sendErr != nil {
		logger.CtxWarn(ctx, "Notification delivery failed",
			"notification_id", record.ID,
			"type", notificationType,
			"recipient", recipient,
			"error", sendErr.Error(),
		)
		return record, apperrors.ErrUpstreamService(sendErr, "notification", "Email delivery failed")
	}

	return record, nil
}

func (s *notificationService) send(recipient, subject, body string) error {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	return s.provider.Send(&email.Email{
		From:     from,
		To:       []string{recipient},
		Subject:  subject,
		HTMLBody: body,
	})
}

// resolveContent renders the active template for the type, falling back
// to the built-in default when no template exists or when the stored
// template leaves tokens unresolved.
func (s *notificationService) resolveContent(ctx context.Context, notificationType string, vars map[string]string) (string, string, error) {
	template, err := s.notificationRepo.FindActiveTemplateByType(notificationType)
	if err != nil {
		if !errors.Is(err, repositories.ErrTemplateNotFound) {
			return "", "", err
		}
		return defaultContent(notificationType, vars)
	}

	subject, subjectErr := renderTokens(template.Subject, vars)
	body, bodyErr := renderTokens(template.Body, vars)
	if subjectErr != nil || bodyErr != nil {
		renderErr := subjectErr
		if renderErr == nil {
			renderErr = bodyErr
		}
		// A template that cannot render cleanly must not be delivered.
		logger.CtxWarn(ctx, "Template rendering failed, using built-in default",
			"template_id", template.ID,
			"type", notificationType,
			"error", renderErr.Error(),
		)
		return defaultContent(notificationType, vars)
	}

	return subject, body, nil
}

// ---------------- Retry ----------------

func (s *notificationService) RetryNotification(ctx context.Context, notificationID string) (*dto.RetryResponse, error) {
	for {
		record, err := s.notificationRepo.FindRecordByID(notificationID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotificationNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.ErrPersistence(err, "notification")
		}

		if record.Status == models.NotificationStatusSent {
			return &dto.RetryResponse{
				NotificationID: record.ID,
				Status:         string(record.Status),
				RetryCount:     record.RetryCount,
				Retried:        false,
				Message:        "Notification already sent",
			}, nil
		}

		if record.RetryCount >= s.maxRetries {
			return &dto.RetryResponse{
				NotificationID: record.ID,
				Status:         string(record.Status),
				RetryCount:     record.RetryCount,
				Retried:        false,
				Message:        fmt.Sprintf("Maximum retry attempts (%d) reached", s.maxRetries),
			}, nil
		}

		claimed, err := s.notificationRepo.ClaimRetry(record.ID, record.RetryCount)
		if err != nil {
			return nil, apperrors.ErrPersistence(err, "notification")
		}
		if !claimed {
			// A concurrent retry advanced the counter; re-read and
			// re-decide instead of overwriting its attempt.
			continue
		}

		return s.executeRetry(ctx, record)
	}
}

func (s *notificationService) executeRetry(ctx context.Context, record *models.NotificationRecord) (*dto.RetryResponse, error) {
	retryCount := record.RetryCount + 1

	var vars map[string]string
	if len(record.Metadata) > 0 {
		if err := json.Unmarshal(record.Metadata, &vars); err != nil {
			logger.CtxWarn(ctx, "Notification metadata is not readable, rendering with empty variables",
				"notification_id", record.ID, "error", err.Error())
			vars = map[string]string{}
		}
	} else {
		vars = map[string]string{}
	}

	// Re-resolve the template: it may have changed since the original
	// dispatch.
	subject, body, renderErr := s.resolveContent(ctx, record.Type, vars)
	if renderErr != nil {
		if err := s.notificationRepo.MarkFailed(record.ID, renderErr.Error()); err != nil {
			return nil, apperrors.ErrPersistence(err, "notification")
		}
		return &dto.RetryResponse{
			NotificationID: record.ID,
			Status:         string(models.NotificationStatusFailed),
			RetryCount:     retryCount,
			Retried:        true,
			Message:        renderErr.Error(),
		}, nil
	}

	if sendErr := s.send(record.Recipient, subject, body); sendErr != nil {
		if err := s.notificationRepo.MarkFailed(record.ID, sendErr.Error()); err != nil {
			return nil, apperrors.ErrPersistence(err, "notification")
		}
		return &dto.RetryResponse{
			NotificationID: record.ID,
			Status:         string(models.NotificationStatusFailed),
			RetryCount:     retryCount,
			Retried:        true,
			Message:        sendErr.Error(),
		}, nil
	}

	if err := s.notificationRepo.MarkSent(record.ID); err != nil {
		return nil, apperrors.ErrPersistence(err, "notification")
	}

	logger.CtxInfo(ctx, "Notification retry delivered",
		"notification_id", record.ID, "retry_count", retryCount)

	return &dto.RetryResponse{
		NotificationID: record.ID,
		Status:         string(models.NotificationStatusSent),
		RetryCount:     retryCount,
		Retried:        true,
	}, nil
}

// ---------------- Queries ----------------

func (s *notificationService) GetNotification(notificationID string) (*dto.NotificationResponse, error) {
	record, err := s.notificationRepo.FindRecordByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "notification")
	}
	return toNotificationResponse(record), nil
}

func (s *notificationService) ListNotifications(criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	records, total, err := s.notificationRepo.FindRecords(criteria)
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "notification")
	}

	responses := make([]*dto.NotificationResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toNotificationResponse(&records[i]))
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func toNotificationResponse(record *models.NotificationRecord) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:           record.ID,
		Type:         record.Type,
		Recipient:    record.Recipient,
		Subject:      record.Subject,
		Status:       string(record.Status),
		RetryCount:   record.RetryCount,
		LastRetryAt:  record.LastRetryAt,
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// ---------------- Templates ----------------

func (s *notificationService) CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	variables, err := json.Marshal(req.Variables)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	template := &repositories.NotificationTemplate{
		Type:      req.Type,
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: datatypes.JSON(variables),
		IsActive:  req.IsActive,
	}

	if err := s.notificationRepo.CreateTemplate(template); err != nil {
		return nil, apperrors.ErrPersistence(err, "notification")
	}
	return toTemplateResponse(template), nil
}

func (s *notificationService) GetTemplateByType(notificationType string) (*dto.TemplateResponse, error) {
	template, err := s.notificationRepo.FindActiveTemplateByType(notificationType)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "notification")
	}
	return toTemplateResponse(template), nil
}

func (s *notificationService) ListTemplates() ([]*dto.TemplateResponse, error) {
	templates, err := s.notificationRepo.ListTemplates()
	if err != nil {
		return nil, apperrors.ErrPersistence(err, "notification")
	}

	responses := make([]*dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, toTemplateResponse(&templates[i]))
	}
	return responses, nil
}

func (s *notificationService) UpdateTemplate(templateID string, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	template, err := s.notificationRepo.FindTemplateByID(templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "notification")
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Subject != nil {
		template.Subject = *req.Subject
	}
	if req.Body != nil {
		template.Body = *req.Body
	}
	if req.Variables != nil {
		variables, err := json.Marshal(req.Variables)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		template.Variables = datatypes.JSON(variables)
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := s.notificationRepo.UpdateTemplate(template); err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err, "notification")
	}
	return toTemplateResponse(template), nil
}

func (s *notificationService) DeleteTemplate(templateID string) error {
	if err := s.notificationRepo.DeleteTemplate(templateID); err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrPersistence(err, "notification")
	}
	return nil
}

func toTemplateResponse(template *repositories.NotificationTemplate) *dto.TemplateResponse {
	var variables []string
	if len(template.Variables) > 0 {
		_ = json.Unmarshal(template.Variables, &variables)
	}

	return &dto.TemplateResponse{
		ID:        template.ID,
		Type:      template.Type,
		Name:      template.Name,
		Subject:   template.Subject,
		Body:      template.Body,
		Variables: variables,
		IsActive:  template.IsActive,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}
