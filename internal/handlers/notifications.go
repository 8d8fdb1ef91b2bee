package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// NotificationHandler exposes the per-user notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifikasi.
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 20)

	notifications, total, err := h.notifications.ListForUser(requestContext(c), actor.ID, page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, notifications, response.NewMeta(page, perPage, total))
}

// MarkRead handles PATCH /api/notifikasi/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	notification, err := h.notifications.MarkRead(requestContext(c), actor.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, notification)
}

// MarkAllRead handles POST /api/notifikasi/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	affected, err := h.notifications.MarkAllRead(requestContext(c), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": affected})
}
