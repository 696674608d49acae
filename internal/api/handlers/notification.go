package handlers

import (
	"net/http"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List feeds the portal's fixed-interval notification poll.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")

	limit := 50
	if l := queryUint(c, "limit"); l != nil {
		limit = int(*l)
	}

	notifications, err := h.notificationService.List(userID, limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to list notifications", err)
		return
	}

	utils.SendSuccess(c, "Notifications retrieved successfully", gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(userID, id); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Failed to mark notification read", err)
		return
	}

	utils.SendSuccess(c, "Notification marked read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		utils.SendInternalError(c, "Failed to mark notifications read", err)
		return
	}

	utils.SendSuccess(c, "All notifications marked read", nil)
}
