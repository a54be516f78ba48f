// Package sim is a tick-based discrete-event driver for scheduling policies.
// It generates arrival, slice expiry, block, unblock and termination events
// from a Scenario and performs the context switches a policy requests.
package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"procsched/internal/sched"
)

var (
	// ErrStalled means the CPU is idle, processes remain and nothing is pending.
	ErrStalled = errors.New("simulation stalled")
	// ErrHorizon means the run did not finish within Config.MaxTicks.
	ErrHorizon = errors.New("simulation exceeded max ticks")
	// ErrInvalidSwitch means a policy asked to run a process that is not Ready.
	ErrInvalidSwitch = errors.New("invalid context switch")
	// ErrIdleWithReady means the policy left the CPU idle while holding ready processes.
	ErrIdleWithReady = errors.New("cpu idle with ready processes")
)

// PolicyFactory builds the policy under test bound to the simulator.
type PolicyFactory func(d sched.Driver) (sched.Policy, error)

// proc is the simulator's mutable record of one process.
type proc struct {
	spec      ProcessSpec
	state     sched.State
	arrived   bool
	burst     int // index into spec.Bursts
	remaining int64
	stats     ProcessStats
}

func (p *proc) snapshot() sched.Process {
	return sched.Process{
		PID:       sched.PID(p.spec.PID),
		State:     p.state,
		Remaining: p.remaining,
		Tickets:   p.spec.Tickets,
	}
}

// Simulator drives one policy through one scenario. It implements sched.Driver.
type Simulator struct {
	cfg      sched.Config
	scenario Scenario
	policy   sched.Policy
	clock    Clock
	events   *eventHeap
	procs    map[sched.PID]*proc
	order    []sched.PID
	live     int

	current   sched.PID
	useSlice  bool
	sliceUsed int
	switches  int
	idleTicks int64
	trace     []sched.Event
	err       error

	runID string
	log   logrus.FieldLogger
}

// New creates a simulator running the policy named in cfg.
func New(cfg sched.Config, sc Scenario, log logrus.FieldLogger) (*Simulator, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return NewWithFactory(cfg, sc, log, func(d sched.Driver) (sched.Policy, error) {
		return sched.New(cfg, d, sched.WithLogger(log))
	})
}

// NewWithFactory creates a simulator running the policy built by factory.
func NewWithFactory(cfg sched.Config, sc Scenario, log logrus.FieldLogger, factory PolicyFactory) (*Simulator, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg.Clamp()
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	s := &Simulator{
		cfg:      cfg,
		scenario: sc,
		events:   newEventHeap(),
		procs:    make(map[sched.PID]*proc, len(sc.Processes)),
		current:  sched.Idle,
		runID:    runID,
		log:      log.WithField("run", runID),
	}
	for _, spec := range sc.Processes {
		pid := sched.PID(spec.PID)
		s.procs[pid] = &proc{
			spec:  spec,
			state: sched.Ready,
			stats: ProcessStats{PID: pid, Tickets: spec.Tickets, Arrival: spec.Arrival, FirstRun: -1, Finish: -1},
		}
		s.order = append(s.order, pid)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
	s.live = len(s.order)

	policy, err := factory(s)
	if err != nil {
		return nil, fmt.Errorf("build policy: %w", err)
	}
	s.policy = policy
	return s, nil
}

// Policy returns the policy being driven.
func (s *Simulator) Policy() sched.Policy { return s.policy }

// CurrentProc implements sched.Driver.
func (s *Simulator) CurrentProc() sched.PID { return s.current }

// UseTimeSlice implements sched.Driver.
func (s *Simulator) UseTimeSlice(enabled bool) { s.useSlice = enabled }

// Snapshot implements sched.Driver.
func (s *Simulator) Snapshot(pid sched.PID) (sched.Process, bool) {
	p, ok := s.procs[pid]
	if !ok {
		return sched.Process{}, false
	}
	return p.snapshot(), true
}

// ContextSwitch implements sched.Driver. The switch takes effect immediately.
func (s *Simulator) ContextSwitch(pid sched.PID) {
	now := s.clock.Now()
	target, ok := s.procs[pid]
	if !ok {
		s.fail(fmt.Errorf("%w: unknown pid %d at tick %d", ErrInvalidSwitch, pid, now))
		return
	}
	if !target.arrived || target.state != sched.Ready {
		s.fail(fmt.Errorf("%w: pid %d is %s at tick %d", ErrInvalidSwitch, pid, target.state, now))
		return
	}

	from := s.current
	if prev, ok := s.procs[from]; ok && prev.state == sched.Running {
		prev.state = sched.Ready
	}
	target.state = sched.Running
	if target.stats.FirstRun < 0 {
		target.stats.FirstRun = now
	}
	s.current = pid
	s.sliceUsed = 0
	s.switches++
	s.record(sched.EventDispatch, pid, from)
	s.log.WithFields(logrus.Fields{"tick": now, "pid": pid, "from": from}).Debug("dispatch")
}

func (s *Simulator) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Simulator) record(kind sched.EventKind, pid, from sched.PID) {
	s.trace = append(s.trace, sched.Event{Tick: s.clock.Now(), Kind: kind, PID: pid, From: from})
}

// Run executes the scenario to completion and returns the report.
func (s *Simulator) Run() (*Report, error) {
	s.log.WithFields(logrus.Fields{
		"policy":    s.policy.Name(),
		"processes": len(s.order),
		"slice":     s.cfg.SliceTicks,
	}).Info("starting simulation")

	s.policy.Init()
	for _, pid := range s.order {
		s.events.Push(pending{tick: s.procs[pid].spec.Arrival, kind: pendingArrival, pid: pid})
	}

	for s.live > 0 {
		now := s.clock.Now()
		if now > s.cfg.MaxTicks {
			return nil, fmt.Errorf("%w: %d", ErrHorizon, s.cfg.MaxTicks)
		}
		s.deliverDue(now)
		if s.err != nil {
			return nil, s.err
		}
		if s.current == sched.Idle {
			if err := s.idle(now); err != nil {
				return nil, err
			}
			continue
		}
		s.tick()
		if s.err != nil {
			return nil, s.err
		}
	}

	s.policy.Cleanup()
	report := s.report()
	s.log.WithFields(logrus.Fields{
		"ticks":    report.Ticks,
		"switches": report.ContextSwitches,
	}).Info("simulation complete")
	return report, nil
}

// deliverDue hands every event due at now to the policy.
func (s *Simulator) deliverDue(now int64) {
	for {
		ev, ok := s.events.PopDue(now)
		if !ok {
			return
		}
		p := s.procs[ev.pid]
		switch ev.kind {
		case pendingArrival:
			p.remaining = p.spec.Bursts[0]
			p.state = sched.Ready
			p.arrived = true
			s.record(sched.EventArrive, ev.pid, sched.Idle)
			s.policy.NewProcess(p.snapshot())
		case pendingUnblock:
			p.burst++
			p.remaining = p.spec.Bursts[p.burst]
			p.state = sched.Ready
			s.record(sched.EventUnblock, ev.pid, sched.Idle)
			s.policy.Unblocked(p.snapshot())
		}
		if s.err != nil {
			return
		}
	}
}

// idle skips to the next pending event while the CPU has nothing to run.
func (s *Simulator) idle(now int64) error {
	if ready := s.policy.Queues().Ready; len(ready) > 0 {
		return fmt.Errorf("%w at tick %d: ready queue %v", ErrIdleWithReady, now, ready)
	}
	next, ok := s.events.Peek()
	if !ok {
		return fmt.Errorf("%w at tick %d: %d processes left, ready queue %v",
			ErrStalled, now, s.live, s.policy.Queues().Ready)
	}
	s.record(sched.EventIdle, sched.Idle, sched.Idle)
	gap := s.clock.AdvanceTo(next.tick)
	s.idleTicks += gap
	for _, pid := range s.order {
		if p := s.procs[pid]; p.arrived && p.state == sched.Ready {
			p.stats.Waiting += gap
		}
	}
	return nil
}

// tick runs the current process for one tick and then reports the burst end or
// slice expiry that it caused.
func (s *Simulator) tick() {
	for _, pid := range s.order {
		if p := s.procs[pid]; p.arrived && p.state == sched.Ready && pid != s.current {
			p.stats.Waiting++
		}
	}

	p := s.procs[s.current]
	p.remaining--
	p.stats.CPUTicks++
	s.sliceUsed++
	now := s.clock.Advance()
	pid := s.current

	switch {
	case p.remaining == 0 && p.burst+1 < len(p.spec.Bursts):
		p.burst++
		p.state = sched.Blocked
		s.current = sched.Idle
		s.events.Push(pending{tick: now + p.spec.Bursts[p.burst], kind: pendingUnblock, pid: pid})
		s.record(sched.EventBlock, pid, sched.Idle)
		s.policy.Blocked(p.snapshot())
	case p.remaining == 0:
		p.state = sched.Terminated
		p.stats.Finish = now
		s.current = sched.Idle
		s.live--
		s.record(sched.EventTerminate, pid, sched.Idle)
		s.log.WithFields(logrus.Fields{"tick": now, "pid": pid}).Debug("terminated")
		s.policy.Terminated(p.snapshot())
	case s.useSlice && s.sliceUsed >= s.cfg.SliceTicks:
		p.state = sched.Ready
		s.record(sched.EventSliceExpired, pid, sched.Idle)
		s.policy.FinishedTimeSlice(p.snapshot())
		if s.current == pid {
			p.state = sched.Running
			s.sliceUsed = 0
		}
	}
}

func (s *Simulator) report() *Report {
	r := &Report{
		RunID:           s.runID,
		Policy:          s.policy.Name(),
		Scenario:        s.scenario.Name,
		Ticks:           s.clock.Now(),
		ContextSwitches: s.switches,
		IdleTicks:       s.idleTicks,
		Trace:           append([]sched.Event(nil), s.trace...),
	}
	for _, pid := range s.order {
		r.Processes = append(r.Processes, s.procs[pid].stats)
	}
	return r
}
