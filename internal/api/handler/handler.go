package handler

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/meetme/internal/model"
)

// BookingService движок бронирования
type BookingService interface {
	Book(ctx context.Context, req model.BookingRequest) (*model.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, req model.RescheduleRequest) (*model.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ForStudent(ctx context.Context, studentEmail string) ([]*model.Appointment, error)
	ForCourse(ctx context.Context, courseID string) ([]*model.Appointment, error)
	OnDate(ctx context.Context, date string) ([]*model.Appointment, error)
	Location() *time.Location
}

type SlotService interface {
	Publish(ctx context.Context, slot model.Slot) error
	PublishExclusive(ctx context.Context, slot model.Slot) error
	List(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error)
	Withdraw(ctx context.Context, slot model.Slot) error
}

type UserService interface {
	Register(ctx context.Context, in model.NewUser) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	LinkTelegram(ctx context.Context, email string, chatID int64) error
}

type ClassService interface {
	Create(ctx context.Context, class *model.Class) error
	List(ctx context.Context) ([]*model.Class, error)
	Get(ctx context.Context, courseID string) (*model.Class, error)
	Delete(ctx context.Context, courseID string) error
	Enroll(ctx context.Context, e model.Enrollment) error
	StudentsOf(ctx context.Context, courseID string) ([]*model.Enrollment, error)
	ClassesOf(ctx context.Context, studentEmail string) ([]*model.Class, error)
	ProfessorEmail(ctx context.Context, courseID string) (string, error)
	WithExistingClass(ctx context.Context, appointments []*model.Appointment) ([]*model.Appointment, error)
}

type NotificationService interface {
	ListForRecipient(ctx context.Context, email string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type ChatService interface {
	Send(ctx context.Context, senderID, receiverID, text string) (*model.ChatMessage, error)
	History(ctx context.Context, user1, user2 string) ([]*model.ChatMessage, error)
}

type ExportService interface {
	StudentCalendar(ctx context.Context, studentEmail string) ([]byte, error)
	CourseWorkbook(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
}

// Services зависимости HTTP слоя
type Services struct {
	Booking      BookingService
	Slots        SlotService
	Users        UserService
	Classes      ClassService
	Notification NotificationService
	Chat         ChatService
	Export       ExportService
}

// Handler агрегат всех обработчиков
type Handler struct {
	User         *UserHandler
	Class        *ClassHandler
	Slot         *SlotHandler
	Appointment  *AppointmentHandler
	Notification *NotificationHandler
	Chat         *ChatHandler
	Export       *ExportHandler
	WS           *WSHandler
}

// NewHandler создаёт агрегат обработчиков
func NewHandler(svc Services, ws *WSHandler) *Handler {
	return &Handler{
		User:         NewUserHandler(svc.Users),
		Class:        NewClassHandler(svc.Classes),
		Slot:         NewSlotHandler(svc.Slots),
		Appointment:  NewAppointmentHandler(svc.Booking, svc.Classes),
		Notification: NewNotificationHandler(svc.Notification),
		Chat:         NewChatHandler(svc.Chat),
		Export:       NewExportHandler(svc.Export),
		WS:           ws,
	}
}
