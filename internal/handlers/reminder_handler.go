package handlers

import (
	"net/http"

	"talentflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	*BaseHandler
	reminderService services.ReminderService
}

func NewReminderHandler(base *BaseHandler, reminderService services.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		BaseHandler:     base,
		reminderService: reminderService,
	}
}

func (h *ReminderHandler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.POST("/sweep", h.Sweep)
	}
}

// Sweep runs the same pass the background worker runs on its ticker.
func (h *ReminderHandler) Sweep(c *gin.Context) {
	result, err := h.reminderService.SweepStaleApplications(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"applications_processed": result.ApplicationsProcessed,
		"reminders_created":      result.RemindersCreated,
		"reminders_sent":         result.RemindersSent,
	})
}
