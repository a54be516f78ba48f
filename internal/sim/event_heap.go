package sim

import (
	"github.com/emirpasic/gods/trees/binaryheap"

	"procsched/internal/sched"
)

// pendingKind orders events that fall on the same tick: I/O completions of
// processes already in the system are delivered before new arrivals.
type pendingKind int

const (
	pendingUnblock pendingKind = iota
	pendingArrival
)

// pending is a future driver event.
type pending struct {
	tick int64
	kind pendingKind
	pid  sched.PID
}

// comparePending orders by tick, then kind, then PID so delivery is deterministic.
func comparePending(a, b any) int {
	pa, pb := a.(pending), b.(pending)
	switch {
	case pa.tick != pb.tick:
		return cmpInt64(pa.tick, pb.tick)
	case pa.kind != pb.kind:
		return cmpInt64(int64(pa.kind), int64(pb.kind))
	default:
		return cmpInt64(int64(pa.pid), int64(pb.pid))
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// eventHeap is a min-heap of pending events.
type eventHeap struct {
	h *binaryheap.Heap
}

func newEventHeap() *eventHeap {
	return &eventHeap{h: binaryheap.NewWith(comparePending)}
}

func (e *eventHeap) Push(p pending) { e.h.Push(p) }

// Peek returns the earliest pending event without removing it.
func (e *eventHeap) Peek() (pending, bool) {
	v, ok := e.h.Peek()
	if !ok {
		return pending{}, false
	}
	return v.(pending), true
}

// PopDue removes and returns the earliest event if it is due at or before now.
func (e *eventHeap) PopDue(now int64) (pending, bool) {
	next, ok := e.Peek()
	if !ok || next.tick > now {
		return pending{}, false
	}
	e.h.Pop()
	return next, true
}

func (e *eventHeap) Len() int { return e.h.Size() }
