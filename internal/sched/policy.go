// Package sched holds the CPU scheduling policies: round-robin, shortest time
// to completion first, and stride. A driver reports events to a Policy, which
// reorders its queues and asks the driver for at most one context switch.
package sched

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Driver is the simulation side of the contract. Policies query it and ask it
// to switch; they never change process state themselves.
type Driver interface {
	// CurrentProc returns the running PID, or Idle.
	CurrentProc() PID
	// ContextSwitch asks the driver to make pid the running process.
	ContextSwitch(pid PID)
	// UseTimeSlice declares whether FinishedTimeSlice events should be generated.
	UseTimeSlice(enabled bool)
	// Snapshot returns the current view of pid, if the driver knows it.
	Snapshot(pid PID) (Process, bool)
}

// Policy is a scheduling discipline. The driver calls the callbacks one at a
// time, in event order, and never re-entrantly. Each callback issues at most
// one ContextSwitch.
type Policy interface {
	Name() string
	Init()
	NewProcess(p Process)
	FinishedTimeSlice(p Process)
	Blocked(p Process)
	Unblocked(p Process)
	Terminated(p Process)
	Cleanup()
	// Queues reports the PIDs currently held, head first.
	Queues() QueueState
}

// QueueState is a copy of a policy's queue contents.
type QueueState struct {
	Ready   []PID
	Blocked []PID
}

// Live returns the number of queue entries held.
func (qs QueueState) Live() int { return len(qs.Ready) + len(qs.Blocked) }

// ErrUnknownPolicy is returned by New for unrecognised policy names.
var ErrUnknownPolicy = errors.New("unknown policy")

const (
	PolicyRoundRobin = "rr"
	PolicySTCF       = "stcf"
	PolicyStride     = "stride"
)

// policyAliases maps accepted names to their canonical form.
var policyAliases = map[string]string{
	"rr":          PolicyRoundRobin,
	"round-robin": PolicyRoundRobin,
	"stcf":        PolicySTCF,
	"srtf":        PolicySTCF,
	"stride":      PolicyStride,
}

// IsValidPolicy returns true if name is a recognised policy name or alias.
func IsValidPolicy(name string) bool {
	_, ok := policyAliases[name]
	return ok
}

// PolicyNames returns the accepted policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policyAliases))
	for n := range policyAliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New creates the policy named by cfg.Policy bound to the given driver.
func New(cfg Config, d Driver, opts ...Option) (Policy, error) {
	name, ok := policyAliases[cfg.Policy]
	if !ok {
		return nil, fmt.Errorf("%w %q (valid: %v)", ErrUnknownPolicy, cfg.Policy, PolicyNames())
	}
	switch name {
	case PolicyRoundRobin:
		return NewRoundRobin(d, opts...), nil
	case PolicySTCF:
		return NewSTCF(d, append([]Option{WithPreemptOnTie(cfg.STCFPreemptOnTie)}, opts...)...), nil
	case PolicyStride:
		return NewStride(d, append([]Option{WithStrideConstant(cfg.StrideConstant)}, opts...)...), nil
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}

type options struct {
	log            logrus.FieldLogger
	preemptOnTie   bool
	strideConstant int64
}

// Option configures a policy.
type Option func(*options)

// WithLogger routes policy decision logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithPreemptOnTie sets whether an STCF arrival preempts a running process
// with equal remaining time. Ignored by other policies.
func WithPreemptOnTie(v bool) Option {
	return func(o *options) { o.preemptOnTie = v }
}

// WithStrideConstant sets K in stride = K / tickets. Ignored by other policies.
func WithStrideConstant(k int64) Option {
	return func(o *options) { o.strideConstant = k }
}

func buildOptions(opts []Option) options {
	o := options{
		log:            logrus.StandardLogger(),
		preemptOnTie:   true,
		strideConstant: DefaultStrideConstant,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.strideConstant <= 0 {
		o.strideConstant = DefaultStrideConstant
	}
	return o
}

// dispatcher holds what every policy shares: the driver and a logger.
type dispatcher struct {
	driver Driver
	log    logrus.FieldLogger
}

func newDispatcher(name string, d Driver, log logrus.FieldLogger) dispatcher {
	return dispatcher{driver: d, log: log.WithField("policy", name)}
}

func (d *dispatcher) current() PID { return d.driver.CurrentProc() }

// runnable reports whether pid may be switched to. Without a driver snapshot
// the queue's own view (always Ready on insertion) is trusted.
func (d *dispatcher) runnable(pid PID) bool {
	snap, ok := d.driver.Snapshot(pid)
	return !ok || snap.State == Ready
}

// switchTo requests a switch to pid unless it already runs or is not Ready.
// It returns whether a switch was requested.
func (d *dispatcher) switchTo(pid PID, reason string) bool {
	cur := d.current()
	if pid == cur {
		return false
	}
	if !d.runnable(pid) {
		d.log.WithFields(logrus.Fields{"pid": pid, "reason": reason}).Debug("skip switch: target not ready")
		return false
	}
	d.log.WithFields(logrus.Fields{"pid": pid, "from": cur, "reason": reason}).Debug("context switch")
	d.driver.ContextSwitch(pid)
	return true
}

func (d *dispatcher) miss(op string, pid PID) {
	d.log.WithFields(logrus.Fields{"op": op, "pid": pid}).Debug("queue miss")
}
