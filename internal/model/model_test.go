package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotValidate(t *testing.T) {
	valid := Slot{ProfessorEmail: "p1@uni.edu", CourseID: "MATH101", Date: "2024-05-01", Time: "14:30"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(*Slot)
		kind ErrorKind
		is   error
	}{
		{"missing professor", func(s *Slot) { s.ProfessorEmail = " " }, KindValidation, nil},
		{"bad date", func(s *Slot) { s.Date = "01/05/2024" }, KindValidation, nil},
		{"bad time", func(s *Slot) { s.Time = "2pm" }, KindValidation, nil},
		{"off boundary", func(s *Slot) { s.Time = "14:15" }, KindValidation, ErrInvalidSlotTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mut(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{
		"03:00 PM": "15:00",
		"3:30 pm":  "15:30",
		"12:00 AM": "00:00",
		"09:00":    "09:00",
		" 14:00 ":  "14:00",
	}
	for in, want := range tests {
		got, err := NormalizeClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeClock("quarter past")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSlotKeyAt(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	key := SlotKeyAt("p1@uni.edu", "MATH101", at, loc)

	assert.Equal(t, SlotKey{ProfessorEmail: "p1@uni.edu", CourseID: "MATH101", Date: "2024-05-01", Time: "14:00"}, key)

	start, err := Slot{CourseID: "MATH101", Date: key.Date, Time: key.Time}.Start(loc)
	require.NoError(t, err)
	assert.True(t, start.Equal(at))
}

func TestAlignedToSlot(t *testing.T) {
	base := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	assert.True(t, AlignedToSlot(base))
	assert.True(t, AlignedToSlot(base.Add(30*time.Minute)))
	assert.False(t, AlignedToSlot(base.Add(29*time.Minute)))
	assert.False(t, AlignedToSlot(base.Add(time.Second)))
}

func TestErrorTaxonomy(t *testing.T) {
	wrapped := fmt.Errorf("book: %w", ErrSlotUnavailable)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "slot_unavailable", CodeOf(wrapped))
	assert.Equal(t, KindConsistency, KindOf(ErrDeleteFailed))
	assert.Equal(t, KindNotFound, KindOf(ErrNotFound))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
	assert.Equal(t, "internal", CodeOf(fmt.Errorf("boom")))
}

func TestValidate(t *testing.T) {
	err := Validate(NewUser{Email: "not-an-email", Username: "abc", Password: "pw", Role: "admin"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Username")
	assert.Contains(t, err.Error(), "Role")

	assert.NoError(t, Validate(NewUser{Email: "s1@uni.edu", Username: "student1", Password: "pass", Role: RoleStudent}))
}
