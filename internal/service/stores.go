package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
)

// SlotStore хранилище открытых слотов
type SlotStore interface {
	Put(ctx context.Context, slot model.Slot) error
	PutExclusive(ctx context.Context, slot model.Slot) error
	FindMatching(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error)
	// RemoveIfPresent единственный примитив захвата, атомарный относительно конкурентов
	RemoveIfPresent(ctx context.Context, key model.SlotKey) (model.Slot, bool, error)
	RemoveBefore(ctx context.Context, date, clock string) (int64, error)
}

// AppointmentStore хранилище записей
type AppointmentStore interface {
	Insert(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	FindByStudentCourseTime(ctx context.Context, studentEmail, courseID string, at time.Time) (*model.Appointment, error)
	FindByStudent(ctx context.Context, studentEmail string) ([]*model.Appointment, error)
	FindByCourse(ctx context.Context, courseID string) ([]*model.Appointment, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	UpdateDate(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// NotificationStore журнал уведомлений
type NotificationStore interface {
	Append(ctx context.Context, n *model.Notification) error
	ListForRecipient(ctx context.Context, email string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier принимает события без обратной связи: Emit не блокирует и не возвращает ошибку
type Notifier interface {
	Emit(ctx context.Context, n model.Notification)
}
