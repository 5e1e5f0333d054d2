package models

import (
	"gorm.io/datatypes"
	"time"
)

// NotificationRecord is the durable record of one attempted outbound
// message. retry_count is monotonically non-decreasing and bounded;
// status "sent" is terminal.
type NotificationRecord struct {
	BaseModel
	Type         string             `gorm:"not null;index"` // "candidate_match", "staff_reminder"
	Recipient    string             `gorm:"not null"`
	Subject      string             `gorm:"not null"`
	Status       NotificationStatus `gorm:"not null;default:'pending';index"`
	RetryCount   int                `gorm:"not null;default:0"`
	LastRetryAt  *time.Time
	ErrorMessage string
	// Template variables captured at dispatch time so a retry can
	// re-render against the current template.
	Metadata datatypes.JSON `gorm:"type:jsonb"`
}

// Reminder is the idempotency record of the stale-application sweep.
// For a given (application, type) at most one row ever reaches "sent".
type Reminder struct {
	BaseModel
	ApplicationID string         `gorm:"type:uuid;not null;index:idx_reminder_app_type"`
	Type          string         `gorm:"not null;index:idx_reminder_app_type"`
	Status        ReminderStatus `gorm:"not null;default:'pending'"`
	ScheduledFor  *time.Time
	SentAt        *time.Time
}
