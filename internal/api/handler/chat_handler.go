package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// History возвращает переписку двух пользователей по времени
// GET /chat/history?user1=&user2=
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.chat.History(c.Request.Context(), c.Query("user1"), c.Query("user2"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	response.OK(c, messages)
}
