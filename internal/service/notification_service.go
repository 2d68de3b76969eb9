package service

import (
	"context"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
)

// NotificationService чтение журнала уведомлений получателем
type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// ListForRecipient получает уведомления, новые первыми
func (s *NotificationService) ListForRecipient(ctx context.Context, email string) ([]*model.Notification, error) {
	return s.store.ListForRecipient(ctx, email)
}

// MarkRead помечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	modified, err := s.store.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !modified {
		return model.ErrNotificationNotFound
	}
	return nil
}
