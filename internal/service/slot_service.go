package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"go.uber.org/zap"
)

// SlotService публикация и снятие открытых слотов профессорами
type SlotService struct {
	slots  SlotStore
	loc    *time.Location
	logger *zap.Logger
}

func NewSlotService(slots SlotStore, loc *time.Location, logger *zap.Logger) *SlotService {
	if loc == nil {
		loc = time.UTC
	}
	return &SlotService{slots: slots, loc: loc, logger: logger}
}

// Publish публикует слот; конфликт только с точно таким же слотом
func (s *SlotService) Publish(ctx context.Context, slot model.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := s.slots.Put(ctx, slot); err != nil {
		return err
	}

	s.logPublished(slot, false)
	return nil
}

// PublishExclusive публикует слот, запрещая профессору два слота на одно время в разных курсах.
// Время может прийти в 12-часовом формате.
func (s *SlotService) PublishExclusive(ctx context.Context, slot model.Slot) error {
	clock, err := model.NormalizeClock(slot.Time)
	if err != nil {
		return err
	}
	slot.Time = clock

	if err := slot.Validate(); err != nil {
		return err
	}
	if err := s.slots.PutExclusive(ctx, slot); err != nil {
		return err
	}

	s.logPublished(slot, true)
	return nil
}

func (s *SlotService) logPublished(slot model.Slot, exclusive bool) {
	s.logger.Info("Slot published",
		zap.String("professor_email", slot.ProfessorEmail),
		zap.String("course_id", slot.CourseID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time),
		zap.Bool("exclusive", exclusive),
	)
}

// List ищет открытые слоты
func (s *SlotService) List(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	return s.slots.FindMatching(ctx, filter)
}

// Withdraw снимает конкретный слот профессора
func (s *SlotService) Withdraw(ctx context.Context, slot model.Slot) error {
	clock, err := model.NormalizeClock(slot.Time)
	if err != nil {
		return err
	}
	slot.Time = clock
	if slot.ProfessorEmail == "" || slot.CourseID == "" || slot.Date == "" {
		return model.Invalid("professor_email, course_id, date and time are required")
	}

	_, removed, err := s.slots.RemoveIfPresent(ctx, slot.Key())
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrSlotNotFound
	}

	s.logger.Info("Slot withdrawn",
		zap.String("professor_email", slot.ProfessorEmail),
		zap.String("course_id", slot.CourseID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time),
	)
	return nil
}

// SweepExpired снимает открытые слоты, начало которых уже прошло
func (s *SlotService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	local := now.In(s.loc)
	return s.slots.RemoveBefore(ctx, local.Format(model.DateLayout), local.Format(model.TimeLayout))
}
