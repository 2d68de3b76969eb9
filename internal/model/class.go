package model

import "github.com/google/uuid"

// Class учебный курс профессора
type Class struct {
	ID             uuid.UUID `json:"id"`
	CourseID       string    `json:"course_id"`
	CourseName     string    `json:"course_name"`
	ProfessorName  string    `json:"professor_name"`
	ProfessorEmail string    `json:"professor_email,omitempty"`
	Description    string    `json:"description"`
}

// Enrollment запись студента на курс
type Enrollment struct {
	StudentEmail    string `json:"student_email" validate:"required,email"`
	StudentUsername string `json:"student_username" validate:"required"`
	CourseID        string `json:"course_id" validate:"required"`
}
