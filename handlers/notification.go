package handlers

import (
	"net/http"

	"wheelstrust/services/notification"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
)

var notificationFilters = utils.Filterable{
	"read": utils.BoolField,
	"type": utils.StringField,
}

// NotificationHandler serves the actor's in-app inbox.
type NotificationHandler struct {
	NotificationService notification.NotificationService
}

func NewNotificationHandler(ns notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{NotificationService: ns}
}

// ListNotificationsHandler handles GET /notifications.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	q, ok := listQuery(c, notificationFilters)
	if !ok {
		return
	}
	items, page, unread, err := h.NotificationService.List(c.Request.Context(), actor(c), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, gin.H{"notifications": items, "pagination": page, "unread": unread})
}

// MarkReadHandler handles PATCH /notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	if err := h.NotificationService.MarkRead(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllReadHandler handles PATCH /notifications/read-all.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	n, err := h.NotificationService.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": n})
}

// DeleteNotificationHandler handles DELETE /notifications/:id.
func (h *NotificationHandler) DeleteNotificationHandler(c *gin.Context) {
	if err := h.NotificationService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Notification deleted", nil)
}
