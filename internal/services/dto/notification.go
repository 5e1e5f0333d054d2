package dto

import "time"

// ---------------- Requests ----------------

type CreateTemplateRequest struct {
	Type      string   `json:"type" validate:"required,is-notification-type"`
	Name      string   `json:"name" validate:"required,max=100"`
	Subject   string   `json:"subject" validate:"required,max=200"`
	Body      string   `json:"body" validate:"required,max=5000"`
	Variables []string `json:"variables"`
	IsActive  bool     `json:"is_active"`
}

type UpdateTemplateRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Subject   *string  `json:"subject,omitempty" validate:"omitempty,max=200"`
	Body      *string  `json:"body,omitempty" validate:"omitempty,max=5000"`
	Variables []string `json:"variables,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject"`
	Status       string     `json:"status"`
	RetryCount   int        `json:"retry_count"`
	LastRetryAt  *time.Time `json:"last_retry_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
}

// RetryResponse reports the outcome of one retry request. Message
// explains refusals ("already sent", retry budget exhausted).
type RetryResponse struct {
	NotificationID string `json:"notification_id"`
	Status         string `json:"status"`
	RetryCount     int    `json:"retry_count"`
	Retried        bool   `json:"retried"`
	Message        string `json:"message,omitempty"`
}

type TemplateResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
