package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List возвращает уведомления получателя, новые первыми
// GET /notifications/:id, где :id это email получателя
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.notifications.ListForRecipient(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if items == nil {
		items = []*model.Notification{}
	}
	response.OK(c, items)
}

// MarkRead
// POST /notifications/:id/mark-read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Notification marked as read")
}
