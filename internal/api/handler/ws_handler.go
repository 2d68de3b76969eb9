package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Registry реестр соединений, в который пишет сервер
type Registry interface {
	Register(id string) *session.Client
	Unregister(c *session.Client)
	SendTo(id string, payload []byte) int
	Reply(c *session.Client, payload []byte) bool
}

// WSHandler обслуживает WebSocket соединения: уведомления и чат
type WSHandler struct {
	notify   Registry
	chatConn Registry
	chat     ChatService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

type chatFrame struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

type errorFrame struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewWSHandler(notify, chatConn Registry, chat ChatService, allowOrigins []string, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		notify:   notify,
		chatConn: chatConn,
		chat:     chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowOrigins),
		},
		logger: logger,
	}
}

// Notifications доставляет уведомления пользователю и отвечает эхом на текст
// GET /ws/:user_id
func (h *WSHandler) Notifications(c *gin.Context) {
	userID := c.Param("user_id")
	h.serve(c, h.notify, userID, func(_ context.Context, client *session.Client, data []byte) {
		h.logger.Debug("WebSocket message", zap.String("user_id", userID), zap.Int("size", len(data)))
		h.notify.Reply(client, []byte("You said: "+string(data)))
	})
}

// Chat сохраняет сообщения чата и пересылает их получателю
// GET /ws/chat/:user_id
func (h *WSHandler) Chat(c *gin.Context) {
	userID := c.Param("user_id")
	h.serve(c, h.chatConn, userID, func(ctx context.Context, client *session.Client, data []byte) {
		var frame chatFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.replyError(client, model.Invalid("malformed chat message"))
			return
		}

		sender := frame.SenderID
		if sender == "" {
			sender = userID
		}
		if _, err := h.chat.Send(ctx, sender, frame.ReceiverID, frame.Message); err != nil {
			h.logger.Warn("Chat message rejected", zap.String("user_id", userID), zap.Error(err))
			h.replyError(client, err)
		}
	})
}

// replyError отвечает ошибкой только в соединение, приславшее кадр
func (h *WSHandler) replyError(client *session.Client, err error) {
	msg := err.Error()
	if model.KindOf(err) == model.KindInternal {
		msg = "internal server error"
	}
	payload, _ := json.Marshal(errorFrame{Error: msg, Code: model.CodeOf(err)})
	h.chatConn.Reply(client, payload)
}

func (h *WSHandler) serve(c *gin.Context, hub Registry, userID string, onText func(ctx context.Context, client *session.Client, data []byte)) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := hub.Register(userID)
	h.logger.Info("WebSocket connected", zap.String("user_id", userID))

	go writePump(conn, client)

	defer func() {
		hub.Unregister(client)
		h.logger.Info("WebSocket disconnected", zap.String("user_id", userID))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}
		onText(ctx, client, data)
	}
}

// writePump пишет в соединение единолично и завершается, когда канал клиента закрыт
func writePump(conn *websocket.Conn, client *session.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
