package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// Create создаёт курс
func (r *ClassRepository) Create(ctx context.Context, class *model.Class) error {
	query := `
		INSERT INTO classes (id, course_id, course_name, professor_name, professor_email, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	id := uuid.New()
	_, err := r.pool.Exec(ctx, query,
		id,
		class.CourseID,
		class.CourseName,
		class.ProfessorName,
		class.ProfessorEmail,
		class.Description,
	)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicateClass
		}
		return fmt.Errorf("create class: %w", err)
	}

	class.ID = id
	return nil
}

// List получает все курсы
func (r *ClassRepository) List(ctx context.Context) ([]*model.Class, error) {
	query := `
		SELECT id, course_id, course_name, professor_name, professor_email, description
		FROM classes
		ORDER BY course_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
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

// GetByCourseID получает курс по его коду
func (r *ClassRepository) GetByCourseID(ctx context.Context, courseID string) (*model.Class, error) {
	query := `
		SELECT id, course_id, course_name, professor_name, professor_email, description
		FROM classes
		WHERE course_id = $1
	`

	var c model.Class
	err := r.pool.QueryRow(ctx, query, courseID).Scan(
		&c.ID, &c.CourseID, &c.CourseName, &c.ProfessorName, &c.ProfessorEmail, &c.Description,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class by course id: %w", err)
	}

	return &c, nil
}

// ExistingCourseIDs возвращает те из courseIDs, для которых курс существует
func (r *ClassRepository) ExistingCourseIDs(ctx context.Context, courseIDs []string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT course_id FROM classes WHERE course_id = ANY($1)`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("get existing classes: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool, len(courseIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan course id: %w", err)
		}
		existing[id] = true
	}

	return existing, rows.Err()
}

// Delete удаляет курс; false если курса не было
func (r *ClassRepository) Delete(ctx context.Context, courseID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE course_id = $1`, courseID)
	if err != nil {
		return false, fmt.Errorf("delete class: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
