package sched

// RoundRobin rotates a FIFO ready queue on every slice expiry. The running
// process, if any, is always at the head of the ready queue.
type RoundRobin struct {
	dispatcher
	ready   *fifoQueue
	blocked *fifoQueue
}

// NewRoundRobin creates a round-robin policy bound to d.
func NewRoundRobin(d Driver, opts ...Option) *RoundRobin {
	o := buildOptions(opts)
	return &RoundRobin{
		dispatcher: newDispatcher(PolicyRoundRobin, d, o.log),
		ready:      newFIFOQueue(),
		blocked:    newFIFOQueue(),
	}
}

func (rr *RoundRobin) Name() string { return PolicyRoundRobin }

func (rr *RoundRobin) Init() {
	rr.driver.UseTimeSlice(true)
	rr.ready.Clear()
	rr.blocked.Clear()
}

func (rr *RoundRobin) NewProcess(p Process) {
	expectState("new_process", p, Ready)
	rr.ready.PushBack(p.PID, nil)

	if rr.current() != Idle {
		return
	}
	if head, ok := rr.ready.Front(); ok {
		rr.switchTo(head, "arrival on idle cpu")
	}
}

func (rr *RoundRobin) FinishedTimeSlice(p Process) {
	expectState("finished_time_slice", p, Ready)
	if _, ok := rr.ready.Remove(p.PID); !ok {
		rr.miss("finished_time_slice", p.PID)
	}
	rr.ready.PushBack(p.PID, nil)

	head, _ := rr.ready.Front()
	rr.switchTo(head, "rotation")
}

func (rr *RoundRobin) Blocked(p Process) {
	expectState("blocked", p, Blocked)
	if _, ok := rr.ready.Remove(p.PID); !ok {
		rr.miss("blocked", p.PID)
	}
	rr.blocked.PushBack(p.PID, nil)

	if head, ok := rr.ready.Front(); ok {
		rr.switchTo(head, "blocked")
	}
}

func (rr *RoundRobin) Unblocked(p Process) {
	expectState("unblocked", p, Ready)
	if _, ok := rr.blocked.Remove(p.PID); !ok {
		rr.miss("unblocked", p.PID)
	}
	rr.ready.PushBack(p.PID, nil)

	if rr.current() != Idle {
		return
	}
	head, _ := rr.ready.Front()
	if rr.runnable(head) {
		rr.switchTo(head, "unblock on idle cpu")
	} else {
		rr.switchTo(p.PID, "unblock on idle cpu")
	}
}

func (rr *RoundRobin) Terminated(p Process) {
	expectState("terminated", p, Terminated)
	if _, ok := rr.ready.Remove(p.PID); !ok {
		rr.miss("terminated", p.PID)
		return
	}
	if head, ok := rr.ready.Front(); ok {
		rr.switchTo(head, "terminated")
	}
}

func (rr *RoundRobin) Cleanup() {
	rr.ready.Clear()
	rr.blocked.Clear()
}

func (rr *RoundRobin) Queues() QueueState {
	return QueueState{Ready: rr.ready.PIDs(), Blocked: rr.blocked.PIDs()}
}
