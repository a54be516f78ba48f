// internal/sched/queue.go

package sched

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// fifoQueue keeps PIDs in insertion order with at most one entry per PID.
// Each entry carries a policy-specific payload, which may be nil.
type fifoQueue struct {
	m *linkedhashmap.Map
}

// fifoEntry boxes the payload; linkedhashmap reports a nil value as absent.
type fifoEntry struct {
	v any
}

func newFIFOQueue() *fifoQueue {
	return &fifoQueue{m: linkedhashmap.New()}
}

// PushBack appends pid at the tail. A PID already queued keeps its position
// and has its payload replaced.
func (q *fifoQueue) PushBack(pid PID, v any) { q.m.Put(pid, fifoEntry{v: v}) }

// Remove deletes pid and returns its payload.
func (q *fifoQueue) Remove(pid PID) (any, bool) {
	v, ok := q.Get(pid)
	if !ok {
		return nil, false
	}
	q.m.Remove(pid)
	return v, true
}

func (q *fifoQueue) Get(pid PID) (any, bool) {
	e, ok := q.m.Get(pid)
	if !ok {
		return nil, false
	}
	return e.(fifoEntry).v, true
}

func (q *fifoQueue) Contains(pid PID) bool {
	_, ok := q.m.Get(pid)
	return ok
}

// Front returns the head PID.
func (q *fifoQueue) Front() (PID, bool) {
	it := q.m.Iterator()
	if !it.First() {
		return Idle, false
	}
	return it.Key().(PID), true
}

func (q *fifoQueue) Len() int { return q.m.Size() }

func (q *fifoQueue) PIDs() []PID {
	keys := q.m.Keys()
	pids := make([]PID, len(keys))
	for i, k := range keys {
		pids[i] = k.(PID)
	}
	return pids
}

func (q *fifoQueue) Clear() { q.m.Clear() }

// rankKey is used as a key in the red-black tree.
type rankKey struct {
	rank int64
	pid  PID
}

// compareRank orders keys by rank, then PID, both ascending.
func compareRank(a, b any) int {
	ka, kb := a.(rankKey), b.(rankKey)
	switch {
	case ka.rank < kb.rank:
		return -1
	case ka.rank > kb.rank:
		return 1
	case ka.pid < kb.pid:
		return -1
	case ka.pid > kb.pid:
		return 1
	default:
		return 0
	}
}

// rankedQueue is a priority sequence ordered by (rank, pid). The index maps
// each queued PID to its current key so entries can be found without a scan.
type rankedQueue struct {
	rbt   *redblacktree.Tree
	index map[PID]rankKey
}

func newRankedQueue() *rankedQueue {
	return &rankedQueue{
		rbt:   redblacktree.NewWith(compareRank),
		index: make(map[PID]rankKey),
	}
}

// Put inserts pid at rank, replacing any entry it already has.
func (q *rankedQueue) Put(pid PID, rank int64, v any) {
	if old, ok := q.index[pid]; ok {
		q.rbt.Remove(old)
	}
	key := rankKey{rank: rank, pid: pid}
	q.rbt.Put(key, v)
	q.index[pid] = key
}

// Get returns the rank and payload of pid.
func (q *rankedQueue) Get(pid PID) (int64, any, bool) {
	key, ok := q.index[pid]
	if !ok {
		return 0, nil, false
	}
	v, _ := q.rbt.Get(key)
	return key.rank, v, true
}

// Remove deletes pid and returns its rank and payload.
func (q *rankedQueue) Remove(pid PID) (int64, any, bool) {
	rank, v, ok := q.Get(pid)
	if !ok {
		return 0, nil, false
	}
	q.rbt.Remove(q.index[pid])
	delete(q.index, pid)
	return rank, v, true
}

// Head returns the entry with the smallest (rank, pid).
func (q *rankedQueue) Head() (PID, int64, bool) {
	node := q.rbt.Left()
	if node == nil {
		return Idle, 0, false
	}
	key := node.Key.(rankKey)
	return key.pid, key.rank, true
}

// Next returns the entry ordered immediately after pid.
func (q *rankedQueue) Next(pid PID) (PID, bool) {
	key, ok := q.index[pid]
	if !ok {
		return Idle, false
	}
	// Keys are integral, so the successor is the ceiling of (rank, pid+1).
	node, found := q.rbt.Ceiling(rankKey{rank: key.rank, pid: key.pid + 1})
	if !found {
		return Idle, false
	}
	return node.Key.(rankKey).pid, true
}

func (q *rankedQueue) Contains(pid PID) bool {
	_, ok := q.index[pid]
	return ok
}

func (q *rankedQueue) Len() int { return q.rbt.Size() }

// PIDs returns the queued PIDs in order.
func (q *rankedQueue) PIDs() []PID {
	keys := q.rbt.Keys()
	pids := make([]PID, len(keys))
	for i, k := range keys {
		pids[i] = k.(rankKey).pid
	}
	return pids
}

func (q *rankedQueue) Clear() {
	q.rbt.Clear()
	q.index = make(map[PID]rankKey)
}
