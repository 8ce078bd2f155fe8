// internal/handlers/notification/notification_handler.go
package notification

import (
	"errors"
	"net/http"
	"strconv"

	notifDomain "kynix-service/internal/domain/notification"
	"kynix-service/internal/middleware"
	xerrors "kynix-service/internal/pkg/errors"
	"kynix-service/internal/pkg/response"
	notifService "kynix-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *notifService.NotificationService
}

func NewNotificationHandler(service *notifService.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var filters notifDomain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), middleware.MustGetUserID(c), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to fetch notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications", resp)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to count notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "unread count", gin.H{"unread_count": count})
}

// MarkAsRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid notification id", err)
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to mark notification as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", nil)
}

// MarkAllAsRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(c.Request.Context(), middleware.MustGetUserID(c)); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to mark notifications as read", err)
		return
	}

	response.Success(c, http.StatusOK, "all notifications marked as read", nil)
}

// Create handles POST /api/notifications (admin producer path): persists a
// notification for the target user and pushes it to their live channel.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req notifDomain.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid notification payload", err)
		return
	}

	n, err := h.service.CreateAndPush(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create notification", err)
		return
	}

	response.Success(c, http.StatusCreated, "notification created", n)
}
