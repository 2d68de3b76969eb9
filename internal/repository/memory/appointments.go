package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
)

// AppointmentStore хранилище записей в памяти процесса
type AppointmentStore struct {
	mu    sync.RWMutex
	table map[uuid.UUID]*model.Appointment
	now   func() time.Time
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		table: make(map[uuid.UUID]*model.Appointment),
		now:   time.Now,
	}
}

func (s *AppointmentStore) Insert(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(a.StudentEmail, a.CourseID, a.AppointmentDate, uuid.Nil) != nil {
		return model.ErrDuplicateBooking
	}

	now := s.now()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	s.table[a.ID] = &stored
	return nil
}

func (s *AppointmentStore) FindByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.table[id]; ok {
		out := *a
		return &out, nil
	}
	return nil, nil
}

func (s *AppointmentStore) FindByStudentCourseTime(_ context.Context, studentEmail, courseID string, at time.Time) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a := s.findLocked(studentEmail, courseID, at, uuid.Nil); a != nil {
		out := *a
		return &out, nil
	}
	return nil, nil
}

func (s *AppointmentStore) FindByStudent(_ context.Context, studentEmail string) ([]*model.Appointment, error) {
	return s.filter(func(a *model.Appointment) bool { return a.StudentEmail == studentEmail }), nil
}

func (s *AppointmentStore) FindByCourse(_ context.Context, courseID string) ([]*model.Appointment, error) {
	return s.filter(func(a *model.Appointment) bool { return a.CourseID == courseID }), nil
}

func (s *AppointmentStore) FindBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	return s.filter(func(a *model.Appointment) bool {
		return !a.AppointmentDate.Before(from) && a.AppointmentDate.Before(to)
	}), nil
}

// UpdateDate повторяет семантику modified count: тот же момент времени не считается изменением
func (s *AppointmentStore) UpdateDate(_ context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.table[id]
	if !ok || a.AppointmentDate.Equal(start) {
		return false, nil
	}
	if s.findLocked(a.StudentEmail, a.CourseID, start, id) != nil {
		return false, model.ErrDuplicateBooking
	}

	a.AppointmentDate = start
	a.EndTime = end
	a.UpdatedAt = s.now()
	return true, nil
}

func (s *AppointmentStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.table[id]; !ok {
		return false, nil
	}
	delete(s.table, id)
	return true, nil
}

// Len возвращает число записей
func (s *AppointmentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

func (s *AppointmentStore) findLocked(studentEmail, courseID string, at time.Time, exclude uuid.UUID) *model.Appointment {
	for id, a := range s.table {
		if id == exclude {
			continue
		}
		if a.StudentEmail == studentEmail && a.CourseID == courseID && a.AppointmentDate.Equal(at) {
			return a
		}
	}
	return nil
}

func (s *AppointmentStore) filter(match func(*model.Appointment) bool) []*model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Appointment, 0)
	for _, a := range s.table {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out
}
