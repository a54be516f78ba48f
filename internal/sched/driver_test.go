package sched

import (
	"io"

	"github.com/sirupsen/logrus"
)

// recordingDriver is a minimal in-memory driver. It applies every switch
// immediately and remembers the order they were requested in.
type recordingDriver struct {
	current  PID
	useSlice bool
	declared bool
	switches []PID
	procs    map[PID]*Process
}

func newRecordingDriver() *recordingDriver {
	return &recordingDriver{current: Idle, procs: make(map[PID]*Process)}
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (d *recordingDriver) CurrentProc() PID { return d.current }

func (d *recordingDriver) ContextSwitch(pid PID) {
	if prev, ok := d.procs[d.current]; ok && prev.State == Running {
		prev.State = Ready
	}
	d.switches = append(d.switches, pid)
	d.current = pid
	if p, ok := d.procs[pid]; ok {
		p.State = Running
	}
}

func (d *recordingDriver) UseTimeSlice(enabled bool) {
	d.useSlice = enabled
	d.declared = true
}

func (d *recordingDriver) Snapshot(pid PID) (Process, bool) {
	p, ok := d.procs[pid]
	if !ok {
		return Process{}, false
	}
	return *p, true
}

// take returns the switches recorded since the last call.
func (d *recordingDriver) take() []PID {
	s := d.switches
	d.switches = nil
	return s
}

func (d *recordingDriver) setRemaining(pid PID, remaining int64) {
	d.procs[pid].Remaining = remaining
}

func (d *recordingDriver) arrive(pol Policy, pid PID, remaining int64, tickets int) {
	p := &Process{PID: pid, State: Ready, Remaining: remaining, Tickets: tickets}
	d.procs[pid] = p
	pol.NewProcess(*p)
}

func (d *recordingDriver) expire(pol Policy) {
	p := d.procs[d.current]
	p.State = Ready
	pol.FinishedTimeSlice(*p)
	if d.current == p.PID {
		p.State = Running
	}
}

func (d *recordingDriver) block(pol Policy) {
	p := d.procs[d.current]
	p.State = Blocked
	d.current = Idle
	pol.Blocked(*p)
}

func (d *recordingDriver) unblock(pol Policy, pid PID, remaining int64) {
	p := d.procs[pid]
	p.State = Ready
	p.Remaining = remaining
	pol.Unblocked(*p)
}

func (d *recordingDriver) terminate(pol Policy) {
	p := d.procs[d.current]
	p.State = Terminated
	d.current = Idle
	pol.Terminated(*p)
}
