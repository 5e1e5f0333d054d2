package dto

// SweepResponse summarizes one stale-application sweep.
type SweepResponse struct {
	ApplicationsProcessed int `json:"applications_processed"`
	RemindersCreated      int `json:"reminders_created"`
	RemindersSent         int `json:"reminders_sent"`
}
