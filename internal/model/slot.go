package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// SlotDuration задаёт фиксированную длительность консультации
	SlotDuration = 30 * time.Minute
)

// Slot открытое (никем не занятое) окно профессора.
// Собственного идентификатора у слота нет: существование записи и есть доступность.
type Slot struct {
	ProfessorEmail string `json:"professor_email"`
	CourseID       string `json:"course_id"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM, 24h
}

// SlotKey адресует слот для захвата. Пустой ProfessorEmail означает «любой профессор курса».
type SlotKey struct {
	ProfessorEmail string
	CourseID       string
	Date           string
	Time           string
}

// SlotFilter фильтр поиска слотов, пустые поля не учитываются
type SlotFilter struct {
	ProfessorEmail string
	CourseID       string
	Date           string
}

// Key возвращает полный ключ слота
func (s Slot) Key() SlotKey {
	return SlotKey{
		ProfessorEmail: s.ProfessorEmail,
		CourseID:       s.CourseID,
		Date:           s.Date,
		Time:           s.Time,
	}
}

// Start возвращает момент начала слота в заданной таймзоне
func (s Slot) Start(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
}

// Validate проверяет формат полей слота и границу в 30 минут
func (s Slot) Validate() error {
	if strings.TrimSpace(s.ProfessorEmail) == "" || strings.TrimSpace(s.CourseID) == "" {
		return Invalid("professor_email and course_id are required")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return Invalid("invalid date format, use YYYY-MM-DD")
	}
	t, err := time.Parse(TimeLayout, s.Time)
	if err != nil {
		return Invalid("invalid time format, use HH:MM")
	}
	if t.Minute()%30 != 0 {
		return ErrInvalidSlotTime
	}
	return nil
}

// SlotKeyAt вычисляет координаты слота по моменту времени
func SlotKeyAt(professorEmail, courseID string, at time.Time, loc *time.Location) SlotKey {
	local := at.In(loc)
	return SlotKey{
		ProfessorEmail: professorEmail,
		CourseID:       courseID,
		Date:           local.Format(DateLayout),
		Time:           local.Format(TimeLayout),
	}
}

// NormalizeClock приводит время к 24-часовому виду: "03:00 PM" -> "15:00".
// Строки, которые уже в формате HH:MM, возвращаются как есть.
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("3:04 PM", strings.ToUpper(value)); err == nil {
		return t.Format(TimeLayout), nil
	}
	if t, err := time.Parse(TimeLayout, value); err == nil {
		return t.Format(TimeLayout), nil
	}
	return "", Invalid(fmt.Sprintf("invalid time %q", value))
}

// AlignedToSlot проверяет что момент попадает на границу слота
func AlignedToSlot(at time.Time) bool {
	return at.Second() == 0 && at.Nanosecond() == 0 && at.Minute()%30 == 0
}
