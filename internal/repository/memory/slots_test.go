package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mathSlot() model.Slot {
	return model.Slot{ProfessorEmail: "p1@uni.edu", CourseID: "MATH101", Date: "2024-05-01", Time: "14:00"}
}

func TestSlotStore_PutDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()

	require.NoError(t, s.Put(ctx, mathSlot()))
	assert.ErrorIs(t, s.Put(ctx, mathSlot()), model.ErrDuplicateSlot)

	other := mathSlot()
	other.CourseID = "PHYS201"
	assert.NoError(t, s.Put(ctx, other), "plain Put allows the same professor in another course")
}

func TestSlotStore_PutExclusive(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()

	require.NoError(t, s.PutExclusive(ctx, mathSlot()))

	other := mathSlot()
	other.CourseID = "PHYS201"
	assert.ErrorIs(t, s.PutExclusive(ctx, other), model.ErrDuplicateSlot)

	other.ProfessorEmail = "p2@uni.edu"
	assert.NoError(t, s.PutExclusive(ctx, other))
}

func TestSlotStore_FindMatching(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()

	late := mathSlot()
	late.Time = "15:30"
	other := mathSlot()
	other.CourseID = "PHYS201"
	other.Date = "2024-05-02"

	for _, slot := range []model.Slot{late, mathSlot(), other} {
		require.NoError(t, s.Put(ctx, slot))
	}

	got, err := s.FindMatching(ctx, model.SlotFilter{CourseID: "MATH101"})
	require.NoError(t, err)
	assert.Equal(t, []model.Slot{mathSlot(), late}, got)

	got, err = s.FindMatching(ctx, model.SlotFilter{Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, []model.Slot{other}, got)

	got, err = s.FindMatching(ctx, model.SlotFilter{ProfessorEmail: "nobody@uni.edu"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSlotStore_RemoveIfPresent(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()
	require.NoError(t, s.Put(ctx, mathSlot()))

	key := mathSlot().Key()
	key.ProfessorEmail = ""

	got, ok, err := s.RemoveIfPresent(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, mathSlot(), got)

	_, ok, err = s.RemoveIfPresent(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotStore_RemoveIfPresent_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()
	require.NoError(t, s.Put(ctx, mathSlot()))

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := s.RemoveIfPresent(ctx, mathSlot().Key()); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestSlotStore_RemoveBefore(t *testing.T) {
	ctx := context.Background()
	s := NewSlotStore()

	past := mathSlot()
	past.Date = "2024-04-30"
	sameDayEarly := mathSlot()
	sameDayEarly.Time = "09:00"
	future := mathSlot()
	future.Date = "2024-05-02"

	for _, slot := range []model.Slot{past, sameDayEarly, mathSlot(), future} {
		require.NoError(t, s.Put(ctx, slot))
	}

	removed, err := s.RemoveBefore(ctx, "2024-05-01", "14:00")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	left, err := s.FindMatching(ctx, model.SlotFilter{})
	require.NoError(t, err)
	assert.Equal(t, []model.Slot{mathSlot(), future}, left)
}

func TestSlotStore_PutRemoveRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		s := NewSlotStore()

		slot := model.Slot{
			ProfessorEmail: rapid.SampledFrom([]string{"a@uni.edu", "b@uni.edu"}).Draw(t, "professor"),
			CourseID:       rapid.StringMatching(`[A-Z]{4}[0-9]{3}`).Draw(t, "course"),
			Date:           "2024-05-01",
			Time:           rapid.SampledFrom([]string{"09:00", "09:30", "14:00"}).Draw(t, "time"),
		}

		if err := s.Put(ctx, slot); err != nil {
			t.Fatalf("put: %v", err)
		}
		got, ok, err := s.RemoveIfPresent(ctx, slot.Key())
		if err != nil || !ok || got != slot {
			t.Fatalf("remove: got %+v ok=%v err=%v", got, ok, err)
		}
		if err := s.Put(ctx, got); err != nil {
			t.Fatalf("re-put of removed slot: %v", err)
		}
	})
}
