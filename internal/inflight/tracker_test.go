package inflight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupersedeDoesNotCancel(t *testing.T) {
	tracker := NewTracker()
	var events [][2]uint64
	tracker.OnSupersede = func(slot Slot, previous, current uint64) {
		assert.Equal(t, SlotChat, slot)
		events = append(events, [2]uint64{previous, current})
	}

	first, firstCtx := tracker.Begin(context.Background(), SlotChat)
	second, _ := tracker.Begin(context.Background(), SlotChat)

	assert.Less(t, first.ID, second.ID)
	assert.NoError(t, firstCtx.Err(), "an overtaken call keeps running")
	assert.Equal(t, 2, tracker.Pending(SlotChat))
	assert.Equal(t, [][2]uint64{{first.ID, second.ID}}, events)

	assert.False(t, tracker.Finish(second))
	assert.True(t, tracker.Finish(first))
	assert.Equal(t, 0, tracker.Pending(SlotChat))
	assert.Equal(t, second.ID, tracker.Latest(SlotChat))
}

func TestSlotsAreIndependent(t *testing.T) {
	tracker := NewTracker()
	calls := 0
	tracker.OnSupersede = func(Slot, uint64, uint64) { calls++ }

	chat, _ := tracker.Begin(context.Background(), SlotChat)
	reset, _ := tracker.Begin(context.Background(), SlotReset)

	assert.Equal(t, 0, calls)
	assert.False(t, tracker.Finish(chat))
	assert.False(t, tracker.Finish(reset))
}

func TestFinishedCallIsNotReportedAsSuperseded(t *testing.T) {
	tracker := NewTracker()
	calls := 0
	tracker.OnSupersede = func(Slot, uint64, uint64) { calls++ }

	first, _ := tracker.Begin(context.Background(), SlotSubmit)
	tracker.Finish(first)
	tracker.Begin(context.Background(), SlotSubmit)

	assert.Equal(t, 0, calls)
}

func TestCancelAll(t *testing.T) {
	tracker := NewTracker()
	ticket, ctx := tracker.Begin(context.Background(), SlotAssignments)

	tracker.CancelAll()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, 0, tracker.Pending(SlotAssignments))
	assert.False(t, tracker.Finish(ticket))
}
