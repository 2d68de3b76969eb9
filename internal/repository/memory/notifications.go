package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
)

// NotificationStore журнал уведомлений в памяти процесса
type NotificationStore struct {
	mu    sync.RWMutex
	items []*model.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Append(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	stored := *n
	s.items = append(s.items, &stored)
	return nil
}

func (s *NotificationStore) ListForRecipient(_ context.Context, email string) ([]*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Notification, 0)
	for _, n := range s.items {
		if n.RecipientEmail == email {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.items {
		if n.ID == id && !n.Read {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}
