package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type ClassHandler struct {
	classes ClassService
}

func NewClassHandler(classes ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

type createClassRequest struct {
	CourseID       string `json:"course_id"`
	CourseName     string `json:"course_name"`
	ProfessorName  string `json:"professor_name"`
	ProfessorEmail string `json:"professor_email"`
	Description    string `json:"description"`
}

type studentSummary struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Create создаёт курс
// POST /classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	class := &model.Class{
		CourseID:       req.CourseID,
		CourseName:     req.CourseName,
		ProfessorName:  req.ProfessorName,
		ProfessorEmail: req.ProfessorEmail,
		Description:    req.Description,
	}
	if err := h.classes.Create(c.Request.Context(), class); err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, class)
}

// List
// GET /classes
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, classes)
}

// Get
// GET /classes/:course_id
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, class)
}

// Delete
// DELETE /classes/:course_id
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.classes.Delete(c.Request.Context(), c.Param("course_id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Class deleted")
}

// Students возвращает студентов курса
// GET /classes/:course_id/students
func (h *ClassHandler) Students(c *gin.Context) {
	enrollments, err := h.classes.StudentsOf(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	out := make([]studentSummary, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, studentSummary{Email: e.StudentEmail, Username: e.StudentUsername})
	}
	response.OK(c, out)
}

// Enroll
// POST /enrollments
func (h *ClassHandler) Enroll(c *gin.Context) {
	var req model.Enrollment
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.classes.Enroll(c.Request.Context(), req); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, req)
}

// StudentClasses возвращает курсы студента
// GET /enrollments/student/:student_email
func (h *ClassHandler) StudentClasses(c *gin.Context) {
	classes, err := h.classes.ClassesOf(c.Request.Context(), c.Param("student_email"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, classes)
}

// ProfessorEmail
// GET /professor-email/from-course/:course_id
func (h *ClassHandler) ProfessorEmail(c *gin.Context) {
	email, err := h.classes.ProfessorEmail(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"email": email})
}
