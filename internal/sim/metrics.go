package sim

import (
	"fmt"
	"io"
	"text/tabwriter"

	"procsched/internal/sched"
)

// ProcessStats holds per-process timing, all in ticks.
type ProcessStats struct {
	PID      sched.PID
	Tickets  int
	Arrival  int64
	FirstRun int64 // -1 if never dispatched
	Finish   int64 // -1 if never terminated
	CPUTicks int64
	Waiting  int64 // time spent Ready but not running
}

// Turnaround is the time from arrival to termination.
func (ps ProcessStats) Turnaround() int64 { return ps.Finish - ps.Arrival }

// Response is the time from arrival to the first dispatch.
func (ps ProcessStats) Response() int64 { return ps.FirstRun - ps.Arrival }

// Report summarises one simulation run.
type Report struct {
	RunID           string
	Policy          string
	Scenario        string
	Ticks           int64
	ContextSwitches int
	IdleTicks       int64
	Processes       []ProcessStats
	Trace           []sched.Event
}

// Utilization is the fraction of ticks the CPU was busy.
func (r *Report) Utilization() float64 {
	if r.Ticks == 0 {
		return 0
	}
	return float64(r.Ticks-r.IdleTicks) / float64(r.Ticks)
}

func (r *Report) average(f func(ProcessStats) int64) float64 {
	if len(r.Processes) == 0 {
		return 0
	}
	var sum int64
	for _, ps := range r.Processes {
		sum += f(ps)
	}
	return float64(sum) / float64(len(r.Processes))
}

func (r *Report) AvgTurnaround() float64 { return r.average(ProcessStats.Turnaround) }
func (r *Report) AvgWaiting() float64 {
	return r.average(func(ps ProcessStats) int64 { return ps.Waiting })
}
func (r *Report) AvgResponse() float64 { return r.average(ProcessStats.Response) }

// Dispatches returns the context switches in the order they were performed.
func (r *Report) Dispatches() []sched.Event {
	var out []sched.Event
	for _, ev := range r.Trace {
		if ev.Kind == sched.EventDispatch {
			out = append(out, ev)
		}
	}
	return out
}

// Stats returns the stats of pid.
func (r *Report) Stats(pid sched.PID) (ProcessStats, bool) {
	for _, ps := range r.Processes {
		if ps.PID == pid {
			return ps, true
		}
	}
	return ProcessStats{}, false
}

// Print writes a human-readable summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Simulation %s ===\n", r.RunID)
	fmt.Fprintf(w, "Policy           : %s\n", r.Policy)
	if r.Scenario != "" {
		fmt.Fprintf(w, "Scenario         : %s\n", r.Scenario)
	}
	fmt.Fprintf(w, "Ticks            : %d\n", r.Ticks)
	fmt.Fprintf(w, "Context switches : %d\n", r.ContextSwitches)
	fmt.Fprintf(w, "Idle ticks       : %d\n", r.IdleTicks)
	fmt.Fprintf(w, "CPU utilization  : %.2f%%\n", 100*r.Utilization())
	fmt.Fprintf(w, "Avg turnaround   : %.2f\n", r.AvgTurnaround())
	fmt.Fprintf(w, "Avg waiting      : %.2f\n", r.AvgWaiting())
	fmt.Fprintf(w, "Avg response     : %.2f\n\n", r.AvgResponse())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PID\tTickets\tArrival\tFirstRun\tFinish\tCPU\tWaiting\tTurnaround\tResponse\t")
	for _, ps := range r.Processes {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			ps.PID, ps.Tickets, ps.Arrival, ps.FirstRun, ps.Finish,
			ps.CPUTicks, ps.Waiting, ps.Turnaround(), ps.Response())
	}
	tw.Flush()
}
