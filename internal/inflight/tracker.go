// Package inflight tracks outstanding backend calls per logical slot.
//
// A new call in a slot supersedes the previous one without aborting it: both keep running and
// both deliver their result. The tracker only makes the race visible (Superseded) and lets the
// owner cancel everything at once when a page goes away.
package inflight

import (
	"context"
	"sync"
)

type Slot string

const (
	SlotChat        Slot = "chat"
	SlotReset       Slot = "reset"
	SlotLanguage    Slot = "language"
	SlotAssignments Slot = "assignments"
	SlotSubmit      Slot = "submit"
)

type Ticket struct {
	ID   uint64
	Slot Slot
}

type entry struct {
	slot   Slot
	cancel context.CancelFunc
}

type Tracker struct {
	mu      sync.Mutex
	nextID  uint64
	latest  map[Slot]uint64
	pending map[uint64]entry

	// OnSupersede, when set, is called (outside the lock) each time a call overtakes an unfinished one.
	OnSupersede func(slot Slot, previous, current uint64)
}

func NewTracker() *Tracker {
	return &Tracker{
		latest:  make(map[Slot]uint64),
		pending: make(map[uint64]entry),
	}
}

// Begin registers a call and returns its ticket plus a context derived from parent.
// Callers must pass the ticket to Finish exactly once.
func (t *Tracker) Begin(parent context.Context, slot Slot) (Ticket, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	t.nextID++
	id := t.nextID
	previous, hadPrevious := t.latest[slot]
	_, previousPending := t.pending[previous]
	t.latest[slot] = id
	t.pending[id] = entry{slot: slot, cancel: cancel}
	hook := t.OnSupersede
	t.mu.Unlock()

	if hadPrevious && previousPending && hook != nil {
		hook(slot, previous, id)
	}
	return Ticket{ID: id, Slot: slot}, ctx
}

// Finish releases the ticket and reports whether a newer call in the same slot was started meanwhile.
func (t *Tracker) Finish(ticket Ticket) (superseded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.pending[ticket.ID]; ok {
		e.cancel()
		delete(t.pending, ticket.ID)
	}
	return t.latest[ticket.Slot] != ticket.ID
}

func (t *Tracker) Pending(slot Slot) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, e := range t.pending {
		if e.slot == slot {
			count++
		}
	}
	return count
}

func (t *Tracker) Latest(slot Slot) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[slot]
}

// CancelAll aborts every outstanding call. Used when a client's controllers are discarded.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, e := range t.pending {
		e.cancel()
		delete(t.pending, id)
	}
}
