package handlers

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AnalysisHandler     *AnalysisHandler
	MatchingHandler     *MatchingHandler
	NotificationHandler *NotificationHandler
	ReminderHandler     *ReminderHandler
	HealthHandler       *HealthHandler
}
