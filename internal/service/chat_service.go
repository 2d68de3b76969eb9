package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"go.uber.org/zap"
)

// ChatStore хранилище сообщений чата
type ChatStore interface {
	Save(ctx context.Context, m *model.ChatMessage) error
	History(ctx context.Context, user1, user2 string) ([]*model.ChatMessage, error)
}

type ChatService struct {
	store  ChatStore
	pusher Pusher
	logger *zap.Logger
	now    func() time.Time
}

func NewChatService(store ChatStore, pusher Pusher, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, pusher: pusher, logger: logger, now: time.Now}
}

// Send сохраняет сообщение и пересылает его получателю, если тот подключён
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, text string) (*model.ChatMessage, error) {
	if strings.TrimSpace(receiverID) == "" || strings.TrimSpace(text) == "" {
		return nil, model.Invalid("receiver_id and message are required")
	}

	msg := &model.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
		Timestamp:  s.now().UTC(),
	}
	if err := s.store.Save(ctx, msg); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal chat message: %w", err)
	}
	if delivered := s.pusher.SendTo(receiverID, payload); delivered == 0 {
		s.logger.Debug("Chat receiver offline", zap.String("receiver_id", receiverID))
	}

	return msg, nil
}

// History получает переписку двух пользователей
func (s *ChatService) History(ctx context.Context, user1, user2 string) ([]*model.ChatMessage, error) {
	if user1 == "" || user2 == "" {
		return nil, model.Invalid("user1 and user2 are required")
	}
	return s.store.History(ctx, user1, user2)
}
