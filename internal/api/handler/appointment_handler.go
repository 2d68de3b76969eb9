package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type AppointmentHandler struct {
	booking BookingService
	classes ClassService
}

func NewAppointmentHandler(booking BookingService, classes ClassService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, classes: classes}
}

type bookRequest struct {
	StudentName     string `json:"student_name"`
	StudentEmail    string `json:"student_email"`
	CourseID        string `json:"course_id"`
	CourseName      string `json:"course_name"`
	ProfessorName   string `json:"professor_name"`
	AppointmentDate string `json:"appointment_date"`
	DurationMinutes int    `json:"duration_minutes"`
}

type rescheduleRequest struct {
	NewDatetime  string `json:"new_datetime"`
	CourseID     string `json:"course_id"`
	StudentEmail string `json:"student_email"`
}

// Book бронирует слот
// POST /appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	start, err := parseTimestamp(req.AppointmentDate, h.booking.Location())
	if err != nil {
		response.Fail(c, err)
		return
	}

	appointment, err := h.booking.Book(c.Request.Context(), model.BookingRequest{
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		CourseID:        req.CourseID,
		CourseName:      req.CourseName,
		ProfessorName:   req.ProfessorName,
		AppointmentDate: start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, appointment)
}

// Get
// GET /appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.booking.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, appointment)
}

// Cancel отменяет запись и возвращает слот
// DELETE /appointments/:id
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.booking.Cancel(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Appointment cancelled and slot restored")
}

// Reschedule переносит запись
// POST /appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	newDate, err := parseTimestamp(req.NewDatetime, h.booking.Location())
	if err != nil {
		response.Fail(c, err)
		return
	}

	appointment, err := h.booking.Reschedule(c.Request.Context(), model.RescheduleRequest{
		AppointmentID: id,
		NewDate:       newDate,
		CourseID:      req.CourseID,
		StudentEmail:  req.StudentEmail,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, appointment)
}

// ByStudent
// GET /appointments?student_email=
func (h *AppointmentHandler) ByStudent(c *gin.Context) {
	email, ok := mustQuery(c, "student_email")
	if !ok {
		return
	}

	appointments, err := h.booking.ForStudent(c.Request.Context(), email)
	h.respondList(c, appointments, err)
}

// Schedule возвращает записи на день
// GET /get_schedule?date=YYYY-MM-DD
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	date, ok := mustQuery(c, "date")
	if !ok {
		return
	}

	appointments, err := h.booking.OnDate(c.Request.Context(), date)
	h.respondList(c, appointments, err)
}

// ForStudent возвращает записи студента только по существующим курсам
// GET /appointments/student/:email
func (h *AppointmentHandler) ForStudent(c *gin.Context) {
	ctx := c.Request.Context()

	appointments, err := h.booking.ForStudent(ctx, c.Param("email"))
	if err == nil {
		appointments, err = h.classes.WithExistingClass(ctx, appointments)
	}
	h.respondList(c, appointments, err)
}

// ForCourse
// GET /appointments/professor/:course_id
func (h *AppointmentHandler) ForCourse(c *gin.Context) {
	appointments, err := h.booking.ForCourse(c.Request.Context(), c.Param("course_id"))
	h.respondList(c, appointments, err)
}

func (h *AppointmentHandler) respondList(c *gin.Context, appointments []*model.Appointment, err error) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	response.OK(c, appointments)
}
