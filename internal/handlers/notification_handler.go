package handlers

import (
	"net/http"

	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/services"
	"talentflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/:notificationId", h.GetNotification)
		notifications.POST("/:notificationId/retry", h.RetryNotification)

		notifications.POST("/templates", h.CreateTemplate)
		notifications.GET("/templates", h.ListTemplates)
		notifications.GET("/templates/type/:type", h.GetTemplateByType)
		notifications.PUT("/templates/:templateId", h.UpdateTemplate)
		notifications.DELETE("/templates/:templateId", h.DeleteTemplate)
	}
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	notificationID := c.Param("notificationId")

	notification, err := h.notificationService.GetNotification(notificationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"notification": notification,
	})
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	criteria := repositories.NotificationCriteria{
		Type:     c.Query("type"),
		Status:   models.NotificationStatus(c.Query("status")),
		Page:     ParseQueryInt(c, "page", 1),
		PageSize: ParseQueryInt(c, "page_size", 20),
	}

	result, err := h.notificationService.ListNotifications(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": result.Notifications,
		"total":         result.Total,
		"page":          result.Page,
		"page_size":     result.PageSize,
	})
}

// RetryNotification reports refusals ("already sent", retry budget
// exhausted) with success=false and HTTP 200: the request itself was
// handled, the delivery did not happen.
func (h *NotificationHandler) RetryNotification(c *gin.Context) {
	notificationID := c.Param("notificationId")

	result, err := h.notificationService.RetryNotification(c.Request.Context(), notificationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      result.Retried && result.Status == string(models.NotificationStatusSent),
		"message":      result.Message,
		"notification": result,
	})
}

// --- Template administration ---

func (h *NotificationHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	template, err := h.notificationService.CreateTemplate(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"template": template,
	})
}

func (h *NotificationHandler) ListTemplates(c *gin.Context) {
	templates, err := h.notificationService.ListTemplates()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": templates,
	})
}

func (h *NotificationHandler) GetTemplateByType(c *gin.Context) {
	notificationType := c.Param("type")

	template, err := h.notificationService.GetTemplateByType(notificationType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"template": template,
	})
}

func (h *NotificationHandler) UpdateTemplate(c *gin.Context) {
	templateID := c.Param("templateId")

	var req dto.UpdateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	template, err := h.notificationService.UpdateTemplate(templateID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"template": template,
	})
}

func (h *NotificationHandler) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("templateId")

	if err := h.notificationService.DeleteTemplate(templateID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
