package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, student_name, student_email, course_id, course_name, professor_name,
		professor_email, appointment_date, end_time, created_at, updated_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// Insert создаёт запись и присваивает ей идентификатор
func (r *AppointmentRepository) Insert(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, student_name, student_email, course_id, course_name,
			professor_name, professor_email, appointment_date, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	id := uuid.New()
	err := r.pool.QueryRow(
		ctx, query,
		id,
		a.StudentName,
		a.StudentEmail,
		a.CourseID,
		a.CourseName,
		a.ProfessorName,
		a.ProfessorEmail,
		a.AppointmentDate,
		a.EndTime,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicateBooking
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	a.ID = id
	return nil
}

// FindByID получает запись по ID
func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// FindByStudentCourseTime ищет запись студента на курс на точное время
func (r *AppointmentRepository) FindByStudentCourseTime(ctx context.Context, studentEmail, courseID string, at time.Time) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE student_email = $1 AND course_id = $2 AND appointment_date = $3
	`

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, studentEmail, courseID, at))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by student course time: %w", err)
	}

	return a, nil
}

// FindByStudent получает все записи студента
func (r *AppointmentRepository) FindByStudent(ctx context.Context, studentEmail string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE student_email = $1
		ORDER BY appointment_date
	`

	return r.list(ctx, "get appointments by student", query, studentEmail)
}

// FindByCourse получает все записи на курс
func (r *AppointmentRepository) FindByCourse(ctx context.Context, courseID string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE course_id = $1
		ORDER BY appointment_date
	`

	return r.list(ctx, "get appointments by course", query, courseID)
}

// FindBetween получает записи, начинающиеся в интервале [from, to)
func (r *AppointmentRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
		ORDER BY appointment_date
	`

	return r.list(ctx, "get appointments by date", query, from, to)
}

// UpdateDate переносит запись; false если ни одна строка не изменилась
func (r *AppointmentRepository) UpdateDate(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET appointment_date = $2, end_time = $3, updated_at = now()
		WHERE id = $1 AND appointment_date <> $2
	`

	tag, err := r.pool.Exec(ctx, query, id, start, end)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return false, model.ErrDuplicateBooking
		}
		return false, fmt.Errorf("update appointment date: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete удаляет запись; true только если удалена ровно одна строка
func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AppointmentRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	appointments := make([]*model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.StudentName,
		&a.StudentEmail,
		&a.CourseID,
		&a.CourseName,
		&a.ProfessorName,
		&a.ProfessorEmail,
		&a.AppointmentDate,
		&a.EndTime,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
