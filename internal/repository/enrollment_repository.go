package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create записывает студента на курс
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_email, student_username, course_id)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, e.StudentEmail, e.StudentUsername, e.CourseID); err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrAlreadyEnrolled
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// StudentsOf получает записи студентов курса
func (r *EnrollmentRepository) StudentsOf(ctx context.Context, courseID string) ([]*model.Enrollment, error) {
	query := `
		SELECT student_email, student_username, course_id
		FROM enrollments
		WHERE course_id = $1
		ORDER BY student_username
	`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("get students of class: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*model.Enrollment, 0)
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.StudentEmail, &e.StudentUsername, &e.CourseID); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}

	return enrollments, rows.Err()
}

// ClassesOf получает курсы, на которые записан студент
func (r *EnrollmentRepository) ClassesOf(ctx context.Context, studentEmail string) ([]*model.Class, error) {
	query := `
		SELECT c.id, c.course_id, c.course_name, c.professor_name, c.professor_email, c.description
		FROM enrollments e
		JOIN classes c ON c.course_id = e.course_id
		WHERE e.student_email = $1
		ORDER BY c.course_id
	`

	rows, err := r.pool.Query(ctx, query, studentEmail)
	if err != nil {
		return nil, fmt.Errorf("get classes of student: %w", err)
	}
	defer rows.Close()

	classes := make([]*model.Class, 0)
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.CourseID, &c.CourseName, &c.ProfessorName, &c.ProfessorEmail, &c.Description); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, &c)
	}

	return classes, rows.Err()
}
