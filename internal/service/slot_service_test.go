package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSlotService_Publish(t *testing.T) {
	ctx := context.Background()
	svc := NewSlotService(memory.NewSlotStore(), time.UTC, zap.NewNop())

	require.NoError(t, svc.Publish(ctx, mathSlot))
	assert.ErrorIs(t, svc.Publish(ctx, mathSlot), model.ErrDuplicateSlot)

	bad := mathSlot
	bad.Time = "14:10"
	assert.ErrorIs(t, svc.Publish(ctx, bad), model.ErrInvalidSlotTime)
}

func TestSlotService_PublishExclusive(t *testing.T) {
	ctx := context.Background()
	svc := NewSlotService(memory.NewSlotStore(), time.UTC, zap.NewNop())

	twelveHour := mathSlot
	twelveHour.Time = "02:00 PM"
	require.NoError(t, svc.PublishExclusive(ctx, twelveHour))

	slots, err := svc.List(ctx, model.SlotFilter{ProfessorEmail: "p1@uni.edu"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "14:00", slots[0].Time)

	otherCourse := mathSlot
	otherCourse.CourseID = "PHYS201"
	assert.ErrorIs(t, svc.PublishExclusive(ctx, otherCourse), model.ErrDuplicateSlot)
}

func TestSlotService_Withdraw(t *testing.T) {
	ctx := context.Background()
	svc := NewSlotService(memory.NewSlotStore(), time.UTC, zap.NewNop())
	require.NoError(t, svc.Publish(ctx, mathSlot))

	other := mathSlot
	other.ProfessorEmail = "p2@uni.edu"
	assert.ErrorIs(t, svc.Withdraw(ctx, other), model.ErrSlotNotFound, "only the owner's slot is withdrawn")

	require.NoError(t, svc.Withdraw(ctx, mathSlot))
	assert.ErrorIs(t, svc.Withdraw(ctx, mathSlot), model.ErrSlotNotFound)

	assert.Equal(t, model.KindValidation, model.KindOf(svc.Withdraw(ctx, model.Slot{Time: "14:00"})))
}

func TestSlotService_SweepExpired(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*60*60)
	store := memory.NewSlotStore()
	svc := NewSlotService(store, loc, zap.NewNop())

	future := mathSlot
	future.Time = "15:00"
	require.NoError(t, store.Put(ctx, mathSlot))
	require.NoError(t, store.Put(ctx, future))

	// 11:30 UTC = 14:30 UTC+3
	removed, err := svc.SweepExpired(ctx, time.Date(2024, 5, 1, 11, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	left, err := svc.List(ctx, model.SlotFilter{})
	require.NoError(t, err)
	assert.Equal(t, []model.Slot{future}, left)
}
