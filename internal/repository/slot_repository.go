package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// Put публикует слот; DuplicateSlot если такой (профессор, курс, дата, время) уже есть
func (r *SlotRepository) Put(ctx context.Context, slot model.Slot) error {
	query := `
		INSERT INTO available_slots (professor_email, course_id, slot_date, slot_time)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, slot.ProfessorEmail, slot.CourseID, slot.Date, slot.Time)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicateSlot
		}
		return fmt.Errorf("put slot: %w", err)
	}

	return nil
}

// PutExclusive публикует слот, только если у профессора нет слота на это же время ни в одном курсе
func (r *SlotRepository) PutExclusive(ctx context.Context, slot model.Slot) error {
	query := `
		INSERT INTO available_slots (professor_email, course_id, slot_date, slot_time)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (
			SELECT 1 FROM available_slots
			WHERE professor_email = $1 AND slot_date = $3 AND slot_time = $4
		)
	`

	tag, err := r.pool.Exec(ctx, query, slot.ProfessorEmail, slot.CourseID, slot.Date, slot.Time)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicateSlot
		}
		return fmt.Errorf("put exclusive slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDuplicateSlot
	}

	return nil
}

// FindMatching ищет слоты по курсу, профессору и дате
func (r *SlotRepository) FindMatching(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	query := `
		SELECT professor_email, course_id, slot_date, slot_time
		FROM available_slots
		WHERE ($1 = '' OR course_id = $1)
		  AND ($2 = '' OR professor_email = $2)
		  AND ($3 = '' OR slot_date = $3)
		ORDER BY slot_date, slot_time, course_id
	`

	rows, err := r.pool.Query(ctx, query, filter.CourseID, filter.ProfessorEmail, filter.Date)
	if err != nil {
		return nil, fmt.Errorf("find slots: %w", err)
	}
	defer rows.Close()

	slots := make([]model.Slot, 0)
	for rows.Next() {
		var slot model.Slot
		if err := rows.Scan(&slot.ProfessorEmail, &slot.CourseID, &slot.Date, &slot.Time); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// RemoveIfPresent атомарно забирает слот одним запросом.
// Конкурирующие вызовы пропускают заблокированную строку, поэтому строку получает ровно один.
func (r *SlotRepository) RemoveIfPresent(ctx context.Context, key model.SlotKey) (model.Slot, bool, error) {
	query := `
		DELETE FROM available_slots
		WHERE id = (
			SELECT id FROM available_slots
			WHERE course_id = $1
			  AND slot_date = $2
			  AND slot_time = $3
			  AND ($4 = '' OR professor_email = $4)
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING professor_email, course_id, slot_date, slot_time
	`

	var slot model.Slot
	err := r.pool.QueryRow(ctx, query, key.CourseID, key.Date, key.Time, key.ProfessorEmail).Scan(
		&slot.ProfessorEmail,
		&slot.CourseID,
		&slot.Date,
		&slot.Time,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return model.Slot{}, false, nil
		}
		return model.Slot{}, false, fmt.Errorf("remove slot: %w", err)
	}

	return slot, true, nil
}

// RemoveBefore снимает открытые слоты, начало которых раньше date+clock
func (r *SlotRepository) RemoveBefore(ctx context.Context, date, clock string) (int64, error) {
	query := `
		DELETE FROM available_slots
		WHERE slot_date < $1
		   OR (slot_date = $1 AND slot_time < $2)
	`

	tag, err := r.pool.Exec(ctx, query, date, clock)
	if err != nil {
		return 0, fmt.Errorf("remove expired slots: %w", err)
	}

	return tag.RowsAffected(), nil
}
