package sched

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// strideEntry is the per-process stride bookkeeping. The pass value lives in
// the ready queue key while the process is Ready and in the entry while Blocked.
type strideEntry struct {
	stride int64
	pass   int64
}

// Stride gives each process a CPU share proportional to its tickets. The ready
// process with the lowest pass (then lowest PID) runs; every expired slice
// advances the runner's pass by its stride.
type Stride struct {
	dispatcher
	k       int64
	ready   *rankedQueue
	blocked *fifoQueue
}

// NewStride creates a stride policy bound to d.
func NewStride(d Driver, opts ...Option) *Stride {
	o := buildOptions(opts)
	return &Stride{
		dispatcher: newDispatcher(PolicyStride, d, o.log),
		k:          o.strideConstant,
		ready:      newRankedQueue(),
		blocked:    newFIFOQueue(),
	}
}

func (s *Stride) Name() string { return PolicyStride }

// StrideFor returns the stride for a ticket count. It is never below 1 so that
// pass strictly increases.
func (s *Stride) StrideFor(tickets int) int64 {
	if tickets <= 0 {
		panic(fmt.Sprintf("stride: tickets must be positive, got %d", tickets))
	}
	stride := s.k / int64(tickets)
	if stride < 1 {
		stride = 1
	}
	return stride
}

// Pass returns the current pass of a queued process, ready or blocked.
func (s *Stride) Pass(pid PID) (int64, bool) {
	if pass, _, ok := s.ready.Get(pid); ok {
		return pass, true
	}
	if v, ok := s.blocked.Get(pid); ok {
		return v.(strideEntry).pass, true
	}
	return 0, false
}

func (s *Stride) Init() {
	s.driver.UseTimeSlice(true)
	s.ready.Clear()
	s.blocked.Clear()
}

func (s *Stride) NewProcess(p Process) {
	expectState("new_process", p, Ready)
	s.ready.Put(p.PID, 0, strideEntry{stride: s.StrideFor(p.Tickets)})
	s.dispatchIfIdle(p.PID, "arrival on idle cpu")
}

func (s *Stride) FinishedTimeSlice(p Process) {
	expectState("finished_time_slice", p, Ready)
	pass, v, ok := s.ready.Remove(p.PID)
	if !ok {
		s.miss("finished_time_slice", p.PID)
		return
	}
	e := v.(strideEntry)
	s.ready.Put(p.PID, pass+e.stride, e)

	head, _, _ := s.ready.Head()
	s.switchTo(head, "pass advanced")
}

func (s *Stride) Blocked(p Process) {
	expectState("blocked", p, Blocked)
	next, hasNext := s.ready.Next(p.PID)
	pass, v, ok := s.ready.Remove(p.PID)
	if !ok {
		s.miss("blocked", p.PID)
	} else {
		// The interrupted quantum is charged so a blocking process cannot
		// return ahead of where a full slice would have put it.
		e := v.(strideEntry)
		e.pass = pass + e.stride
		s.blocked.PushBack(p.PID, e)
	}

	if hasNext {
		s.switchTo(next, "successor of blocked")
		return
	}
	if head, _, ok := s.ready.Head(); ok {
		s.switchTo(head, "blocked")
	}
}

func (s *Stride) Unblocked(p Process) {
	expectState("unblocked", p, Ready)
	v, ok := s.blocked.Remove(p.PID)
	if !ok {
		// Never seen blocked: admit it level with the current leader.
		_, pass, _ := s.ready.Head()
		s.log.WithFields(logrus.Fields{"pid": p.PID, "pass": pass}).Warn("unblock without saved pass")
		v = strideEntry{stride: s.StrideFor(p.Tickets), pass: pass}
	}
	e := v.(strideEntry)
	s.ready.Put(p.PID, e.pass, strideEntry{stride: e.stride})
	s.dispatchIfIdle(p.PID, "unblock on idle cpu")
}

// dispatchIfIdle switches to the ready head when the CPU is idle, falling
// back to pid when the head cannot run.
func (s *Stride) dispatchIfIdle(pid PID, reason string) {
	if s.current() != Idle {
		return
	}
	head, _, _ := s.ready.Head()
	if s.runnable(head) {
		s.switchTo(head, reason)
		return
	}
	s.switchTo(pid, reason)
}

func (s *Stride) Terminated(p Process) {
	expectState("terminated", p, Terminated)
	if _, _, ok := s.ready.Remove(p.PID); !ok {
		s.miss("terminated", p.PID)
	}
	if head, _, ok := s.ready.Head(); ok {
		s.switchTo(head, "terminated")
	}
}

func (s *Stride) Cleanup() {
	s.ready.Clear()
	s.blocked.Clear()
}

func (s *Stride) Queues() QueueState {
	return QueueState{Ready: s.ready.PIDs(), Blocked: s.blocked.PIDs()}
}
