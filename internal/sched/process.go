package sched

import "fmt"

// PID uniquely identifies a process in the simulation.
type PID int

// Idle is the PID reported by the driver when no process holds the CPU.
const Idle PID = -1

// State is the lifecycle state of a process. The driver assigns it; policies only read it.
type State int

const (
	Ready State = iota
	Running
	Blocked
	Terminated
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Blocked:
		return "Blocked"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Process is a read-only snapshot of one simulated process, taken by the driver
// at the moment it delivers an event.
type Process struct {
	PID       PID
	State     State
	Remaining int64 // ticks left in the current CPU burst
	Tickets   int   // proportional share weight, only used by stride
}

func (p Process) String() string {
	return fmt.Sprintf("pid=%d state=%s remaining=%d tickets=%d", p.PID, p.State, p.Remaining, p.Tickets)
}

// PreconditionError reports a callback that was delivered for a process in the
// wrong state. It is a driver contract violation and policies panic with it.
type PreconditionError struct {
	Op   string
	PID  PID
	Want State
	Got  State
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: pid %d is %s, want %s", e.Op, e.PID, e.Got, e.Want)
}

// expectState panics when p is not in the state the callback requires.
func expectState(op string, p Process, want State) {
	if p.State != want {
		panic(&PreconditionError{Op: op, PID: p.PID, Want: want, Got: p.State})
	}
}
