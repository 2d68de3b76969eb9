package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment подтверждённая запись студента на ранее открытый слот
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	StudentName     string    `json:"student_name"`
	StudentEmail    string    `json:"student_email"`
	CourseID        string    `json:"course_id"`
	CourseName      string    `json:"course_name"`
	ProfessorName   string    `json:"professor_name"`
	ProfessorEmail  string    `json:"professor_email"` // владелец захваченного слота, нужен для восстановления при отмене
	AppointmentDate time.Time `json:"appointment_date"`
	EndTime         time.Time `json:"end_time"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SlotKey возвращает координаты слота, который занимает запись
func (a *Appointment) SlotKey(loc *time.Location) SlotKey {
	return SlotKeyAt(a.ProfessorEmail, a.CourseID, a.AppointmentDate, loc)
}

// Slot восстанавливает слот, занятый записью
func (a *Appointment) Slot(loc *time.Location) Slot {
	key := a.SlotKey(loc)
	return Slot{
		ProfessorEmail: key.ProfessorEmail,
		CourseID:       key.CourseID,
		Date:           key.Date,
		Time:           key.Time,
	}
}

// BookingRequest входные данные операции Book
type BookingRequest struct {
	StudentName     string    `validate:"required"`
	StudentEmail    string    `validate:"required,email"`
	CourseID        string    `validate:"required"`
	CourseName      string    `validate:"required"`
	ProfessorName   string    `validate:"required"`
	AppointmentDate time.Time `validate:"required"`
	// DurationMinutes 0 означает длительность по умолчанию (30 минут)
	DurationMinutes int `validate:"gte=0"`
}

// RescheduleRequest входные данные операции Reschedule
type RescheduleRequest struct {
	AppointmentID uuid.UUID `validate:"required"`
	NewDate       time.Time `validate:"required"`
	CourseID      string
	StudentEmail  string `validate:"omitempty,email"`
}
