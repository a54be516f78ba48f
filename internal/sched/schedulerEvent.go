// internal/sched/schedulerEvent.go

package sched

// EventKind represents the type of scheduling event
type EventKind int

const (
	EventIdle EventKind = iota
	EventArrive
	EventDispatch
	EventSliceExpired
	EventBlock
	EventUnblock
	EventTerminate
)

// Event is one entry of the scheduling timeline recorded by a driver.
// From is only meaningful for EventDispatch and holds the previous PID (or Idle).
type Event struct {
	Tick int64
	Kind EventKind
	PID  PID
	From PID
}

func (ek EventKind) String() string {
	switch ek {
	case EventIdle:
		return "Idle"
	case EventArrive:
		return "Arrive"
	case EventDispatch:
		return "Dispatch"
	case EventSliceExpired:
		return "SliceExpired"
	case EventBlock:
		return "Block"
	case EventUnblock:
		return "Unblock"
	case EventTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}
