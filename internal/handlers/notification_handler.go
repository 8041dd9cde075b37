package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/civitas/api/internal/middleware"
	"github.com/stwalsh4118/civitas/api/internal/services"
)

// NotificationHandler handles derived-alert HTTP requests.
type NotificationHandler struct {
	service services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler instance.
func NewNotificationHandler(service services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/v1/notifications. Alerts are derived on every read;
// nothing is stored.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notifications := h.service.ForUser(userID)
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}
