package sched

// STCF runs the process with the least remaining burst time, ties broken by
// the lower PID. Arrivals and unblocks may preempt; there are no time slices.
type STCF struct {
	dispatcher
	ready        *rankedQueue
	preemptOnTie bool
}

// NewSTCF creates a shortest-time-to-completion-first policy bound to d.
func NewSTCF(d Driver, opts ...Option) *STCF {
	o := buildOptions(opts)
	return &STCF{
		dispatcher:   newDispatcher(PolicySTCF, d, o.log),
		ready:        newRankedQueue(),
		preemptOnTie: o.preemptOnTie,
	}
}

func (s *STCF) Name() string { return PolicySTCF }

func (s *STCF) Init() {
	s.driver.UseTimeSlice(false)
	s.ready.Clear()
}

func (s *STCF) NewProcess(p Process) {
	expectState("new_process", p, Ready)
	s.admit(p, "arrival")
}

// admit is shared by arrival and unblock.
func (s *STCF) admit(p Process, reason string) {
	if s.ready.Len() == 0 {
		s.ready.Put(p.PID, p.Remaining, nil)
		s.switchTo(p.PID, reason+" on empty queue")
		return
	}

	cur := s.current()
	s.ready.Put(p.PID, p.Remaining, nil)
	if cur == Idle {
		head, _, _ := s.ready.Head()
		s.switchTo(head, reason+" on idle cpu")
		return
	}

	snap, known := s.driver.Snapshot(cur)
	if known {
		switch snap.State {
		case Blocked:
			s.Blocked(snap)
			return
		case Terminated:
			s.Terminated(snap)
			return
		}
		// The running process's key goes stale while it runs.
		if s.ready.Contains(cur) {
			s.ready.Put(cur, snap.Remaining, nil)
		}
	}

	head, headRemaining, _ := s.ready.Head()
	if head == cur {
		return
	}
	curRemaining, _, ok := s.ready.Get(cur)
	if known {
		curRemaining, ok = snap.Remaining, true
	}
	if !ok || s.preempts(curRemaining, headRemaining) {
		s.switchTo(head, reason+" preempts")
	}
}

// preempts reports whether a running process with cur ticks left yields to a
// head with head ticks left.
func (s *STCF) preempts(cur, head int64) bool {
	if s.preemptOnTie {
		return cur >= head
	}
	return cur > head
}

// FinishedTimeSlice never fires: Init declares no time slices.
func (s *STCF) FinishedTimeSlice(p Process) {
	expectState("finished_time_slice", p, Ready)
}

func (s *STCF) Blocked(p Process) {
	expectState("blocked", p, Blocked)
	s.remove("blocked", p.PID)
}

func (s *STCF) Unblocked(p Process) {
	expectState("unblocked", p, Ready)
	s.admit(p, "unblock")
}

func (s *STCF) Terminated(p Process) {
	expectState("terminated", p, Terminated)
	s.remove("terminated", p.PID)
}

func (s *STCF) remove(op string, pid PID) {
	if _, _, ok := s.ready.Remove(pid); !ok {
		s.miss(op, pid)
	}
	if head, _, ok := s.ready.Head(); ok {
		s.switchTo(head, op)
	}
}

func (s *STCF) Cleanup() { s.ready.Clear() }

func (s *STCF) Queues() QueueState {
	return QueueState{Ready: s.ready.PIDs()}
}
