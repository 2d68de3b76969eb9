package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/meetme/internal/model"
)

// SlotStore хранилище открытых слотов в памяти процесса
type SlotStore struct {
	mu    sync.Mutex
	seq   int64
	slots map[model.SlotKey]int64 // ключ -> порядковый номер вставки
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[model.SlotKey]int64)}
}

func (s *SlotStore) Put(_ context.Context, slot model.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[slot.Key()]; ok {
		return model.ErrDuplicateSlot
	}
	s.insert(slot)
	return nil
}

func (s *SlotStore) PutExclusive(_ context.Context, slot model.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.slots {
		if key.ProfessorEmail == slot.ProfessorEmail && key.Date == slot.Date && key.Time == slot.Time {
			return model.ErrDuplicateSlot
		}
	}
	s.insert(slot)
	return nil
}

func (s *SlotStore) insert(slot model.Slot) {
	s.seq++
	s.slots[slot.Key()] = s.seq
}

func (s *SlotStore) FindMatching(_ context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]model.Slot, 0)
	for key := range s.slots {
		if filter.CourseID != "" && key.CourseID != filter.CourseID {
			continue
		}
		if filter.ProfessorEmail != "" && key.ProfessorEmail != filter.ProfessorEmail {
			continue
		}
		if filter.Date != "" && key.Date != filter.Date {
			continue
		}
		slots = append(slots, slotOf(key))
	}

	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CourseID < b.CourseID
	})
	return slots, nil
}

// RemoveIfPresent забирает слот под мьютексом: поиск и удаление неделимы.
// При пустом ProfessorEmail берётся самый ранний опубликованный слот курса.
func (s *SlotStore) RemoveIfPresent(_ context.Context, key model.SlotKey) (model.Slot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		found   model.SlotKey
		bestSeq int64
	)
	for k, seq := range s.slots {
		if k.CourseID != key.CourseID || k.Date != key.Date || k.Time != key.Time {
			continue
		}
		if key.ProfessorEmail != "" && k.ProfessorEmail != key.ProfessorEmail {
			continue
		}
		if bestSeq == 0 || seq < bestSeq {
			found, bestSeq = k, seq
		}
	}

	if bestSeq == 0 {
		return model.Slot{}, false, nil
	}
	delete(s.slots, found)
	return slotOf(found), true, nil
}

func (s *SlotStore) RemoveBefore(_ context.Context, date, clock string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key := range s.slots {
		if key.Date < date || (key.Date == date && key.Time < clock) {
			delete(s.slots, key)
			removed++
		}
	}
	return removed, nil
}

func slotOf(key model.SlotKey) model.Slot {
	return model.Slot{
		ProfessorEmail: key.ProfessorEmail,
		CourseID:       key.CourseID,
		Date:           key.Date,
		Time:           key.Time,
	}
}
