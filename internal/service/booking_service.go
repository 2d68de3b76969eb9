package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// compensationTimeout ограничивает шаг отката, который выполняется уже без контекста запроса
const compensationTimeout = 5 * time.Second

// BookingConfig параметры движка бронирования
type BookingConfig struct {
	// Location часовой пояс, в котором из момента времени выводятся дата и время слота
	Location *time.Location
	// StrictReschedule включает перенос с захватом нового слота и освобождением старого
	StrictReschedule bool
}

// BookingService управляет переходами слот <-> запись.
// Инвариант: для одних координат слот и запись никогда не существуют одновременно.
type BookingService struct {
	slots        SlotStore
	appointments AppointmentStore
	notifier     Notifier
	loc          *time.Location
	strict       bool
	tracer       trace.Tracer
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	slots SlotStore,
	appointments AppointmentStore,
	notifier Notifier,
	cfg BookingConfig,
	logger *zap.Logger,
) *BookingService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &BookingService{
		slots:        slots,
		appointments: appointments,
		notifier:     notifier,
		loc:          loc,
		strict:       cfg.StrictReschedule,
		tracer:       otel.Tracer("meetme/booking"),
		logger:       logger,
		now:          time.Now,
	}
}

// Book захватывает слот и создаёт запись
func (s *BookingService) Book(ctx context.Context, req model.BookingRequest) (_ *model.Appointment, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.book",
		trace.WithAttributes(
			attribute.String("course.id", req.CourseID),
			attribute.String("student.email", req.StudentEmail),
		),
	)
	defer func() { endSpan(span, err) }()

	if err := model.Validate(req); err != nil {
		return nil, err
	}
	if req.DurationMinutes != 0 && time.Duration(req.DurationMinutes)*time.Minute != model.SlotDuration {
		return nil, model.ErrInvalidDuration
	}

	start := req.AppointmentDate.In(s.loc)
	if !model.AlignedToSlot(start) {
		return nil, model.ErrInvalidSlotTime
	}

	existing, err := s.appointments.FindByStudentCourseTime(ctx, req.StudentEmail, req.CourseID, start)
	if err != nil {
		return nil, fmt.Errorf("check existing appointment: %w", err)
	}
	if existing != nil {
		return nil, model.ErrAlreadyBooked
	}

	// Точка линеаризации: слот получает тот, кто его удалил
	key := model.SlotKeyAt("", req.CourseID, start, s.loc)
	slot, claimed, err := s.slots.RemoveIfPresent(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("claim slot: %w", err)
	}
	if !claimed {
		span.SetAttributes(attribute.Bool("slot.claimed", false))
		return nil, model.ErrSlotUnavailable
	}
	span.SetAttributes(attribute.Bool("slot.claimed", true))

	appointment := &model.Appointment{
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		CourseID:        req.CourseID,
		CourseName:      req.CourseName,
		ProfessorName:   req.ProfessorName,
		ProfessorEmail:  slot.ProfessorEmail,
		AppointmentDate: start,
		EndTime:         start.Add(model.SlotDuration),
	}

	if err := s.appointments.Insert(ctx, appointment); err != nil {
		s.restoreSlot(ctx, slot, "book")
		if errors.Is(err, model.ErrDuplicateBooking) {
			return nil, model.ErrAlreadyBooked
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("student_email", appointment.StudentEmail),
		zap.String("professor_email", slot.ProfessorEmail),
		zap.String("course_id", appointment.CourseID),
		zap.Time("start", start),
	)

	s.notifier.Emit(ctx, model.Notification{
		RecipientEmail: slot.ProfessorEmail,
		Title:          "New Appointment Booked",
		Message: fmt.Sprintf("%s booked an appointment for %s at %s.",
			appointment.StudentName, appointment.CourseName, slot.Time),
		Kind:      model.NotificationBooking,
		Timestamp: s.now().UTC(),
	})

	return appointment, nil
}

// Cancel удаляет запись и возвращает слот в продажу
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "booking.cancel",
		trace.WithAttributes(attribute.String("appointment.id", id.String())),
	)
	defer func() { endSpan(span, err) }()

	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return model.ErrNotFound
	}

	slot := appointment.Slot(s.loc)
	restored := true
	if err := s.slots.Put(ctx, slot); err != nil {
		if !errors.Is(err, model.ErrDuplicateSlot) {
			return fmt.Errorf("restore slot: %w", err)
		}
		// Слот уже вернул параллельный вызов
		restored = false
		s.logger.Warn("Slot already restored",
			zap.String("appointment_id", id.String()),
			zap.String("course_id", slot.CourseID),
			zap.String("date", slot.Date),
			zap.String("time", slot.Time),
		)
	}

	deleted, err := s.appointments.Delete(ctx, id)
	if err != nil {
		if restored {
			s.withdrawRestoredSlot(ctx, id, slot)
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	if !deleted {
		return model.ErrDeleteFailed
	}

	s.logger.Info("Appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("student_email", appointment.StudentEmail),
		zap.String("course_id", appointment.CourseID),
	)

	s.notifier.Emit(ctx, model.Notification{
		RecipientEmail: appointment.StudentEmail,
		Title:          "Appointment Cancelled",
		Message: fmt.Sprintf("Your appointment for %s at %s was cancelled.",
			appointment.CourseName, appointment.AppointmentDate.In(s.loc).Format("Jan 02 03:04 PM")),
		Kind:      model.NotificationCancellation,
		Timestamp: s.now().UTC(),
	})

	return nil
}

// Reschedule переносит запись на новое время
func (s *BookingService) Reschedule(ctx context.Context, req model.RescheduleRequest) (_ *model.Appointment, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.reschedule",
		trace.WithAttributes(
			attribute.String("appointment.id", req.AppointmentID.String()),
			attribute.Bool("strict", s.strict),
		),
	)
	defer func() { endSpan(span, err) }()

	if err := model.Validate(req); err != nil {
		return nil, err
	}

	appointment, err := s.appointments.FindByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, model.ErrNotFound
	}

	if req.CourseID != "" && req.CourseID != appointment.CourseID {
		s.logger.Warn("Reschedule course does not match appointment",
			zap.String("appointment_id", appointment.ID.String()),
			zap.String("requested_course_id", req.CourseID),
			zap.String("course_id", appointment.CourseID),
		)
	}

	start := req.NewDate.In(s.loc)
	end := start.Add(model.SlotDuration)

	if s.strict {
		err = s.moveStrict(ctx, appointment, start, end)
	} else {
		err = s.moveInPlace(ctx, appointment, start, end)
	}
	if err != nil {
		return nil, err
	}

	appointment.AppointmentDate = start
	appointment.EndTime = end

	s.logger.Info("Appointment rescheduled",
		zap.String("appointment_id", appointment.ID.String()),
		zap.Time("start", start),
		zap.Bool("strict", s.strict),
	)

	recipient := req.StudentEmail
	if recipient == "" {
		recipient = appointment.StudentEmail
	}
	s.notifier.Emit(ctx, model.Notification{
		RecipientEmail: recipient,
		Title:          "Appointment Rescheduled",
		Message: fmt.Sprintf("Your appointment for %s was rescheduled to %s.",
			appointment.CourseName, start.Format("2006-01-02 03:04 PM")),
		Kind:      model.NotificationReschedule,
		Timestamp: s.now().UTC(),
	})

	return appointment, nil
}

// moveInPlace меняет только время записи, слоты не трогает
func (s *BookingService) moveInPlace(ctx context.Context, a *model.Appointment, start, end time.Time) error {
	updated, err := s.appointments.UpdateDate(ctx, a.ID, start, end)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateBooking) {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if !updated {
		return model.ErrUpdateFailed
	}
	return nil
}

// moveStrict захватывает слот на новое время того же профессора и освобождает старый
func (s *BookingService) moveStrict(ctx context.Context, a *model.Appointment, start, end time.Time) error {
	if !model.AlignedToSlot(start) {
		return model.ErrInvalidSlotTime
	}
	if start.Equal(a.AppointmentDate) {
		return model.ErrUpdateFailed
	}

	oldSlot := a.Slot(s.loc)
	newSlot, claimed, err := s.slots.RemoveIfPresent(ctx, model.SlotKeyAt(a.ProfessorEmail, a.CourseID, start, s.loc))
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	if !claimed {
		return model.ErrSlotUnavailable
	}

	if err := s.moveInPlace(ctx, a, start, end); err != nil {
		s.restoreSlot(ctx, newSlot, "reschedule")
		return err
	}

	s.restoreSlot(ctx, oldSlot, "reschedule")
	return nil
}

// compensationContext переживает отмену запроса, но ограничен по времени
func compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}

// withdrawRestoredSlot снова снимает слот, если запись пережила неудачное удаление
func (s *BookingService) withdrawRestoredSlot(ctx context.Context, id uuid.UUID, slot model.Slot) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()

	// ошибка Delete не означает, что строка осталась
	appointment, err := s.appointments.FindByID(ctx, id)
	if err == nil && appointment == nil {
		return
	}
	if err != nil {
		s.logger.Warn("Failed to check appointment after delete error",
			zap.String("appointment_id", id.String()),
			zap.Error(err),
		)
	}

	if _, _, err := s.slots.RemoveIfPresent(ctx, slot.Key()); err != nil {
		s.logger.Error("Failed to withdraw restored slot",
			zap.String("appointment_id", id.String()),
			zap.String("course_id", slot.CourseID),
			zap.String("date", slot.Date),
			zap.String("time", slot.Time),
			zap.Error(err),
		)
	}
}

// restoreSlot возвращает слот после неудачного шага; дубликат означает, что слот уже на месте
func (s *BookingService) restoreSlot(ctx context.Context, slot model.Slot, op string) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()

	if err := s.slots.Put(ctx, slot); err != nil && !errors.Is(err, model.ErrDuplicateSlot) {
		s.logger.Error("Failed to restore slot",
			zap.String("op", op),
			zap.String("professor_email", slot.ProfessorEmail),
			zap.String("course_id", slot.CourseID),
			zap.String("date", slot.Date),
			zap.String("time", slot.Time),
			zap.Error(err),
		)
	}
}

// Get получает запись по ID
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, model.ErrNotFound
	}
	return appointment, nil
}

// ForStudent получает записи студента
func (s *BookingService) ForStudent(ctx context.Context, studentEmail string) ([]*model.Appointment, error) {
	return s.appointments.FindByStudent(ctx, studentEmail)
}

// ForCourse получает записи на курс
func (s *BookingService) ForCourse(ctx context.Context, courseID string) ([]*model.Appointment, error) {
	return s.appointments.FindByCourse(ctx, courseID)
}

// OnDate получает записи за день YYYY-MM-DD в часовом поясе сервиса
func (s *BookingService) OnDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, s.loc)
	if err != nil {
		return nil, model.Invalid("invalid date format, use YYYY-MM-DD")
	}
	return s.appointments.FindBetween(ctx, day, day.AddDate(0, 0, 1))
}

// Location возвращает часовой пояс движка
func (s *BookingService) Location() *time.Location {
	return s.loc
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(model.KindOf(err)))
	}
	span.End()
}
