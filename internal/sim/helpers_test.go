package sim

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"procsched/internal/sched"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(policy string, slice int) sched.Config {
	cfg := sched.DefaultConfig()
	cfg.Policy = policy
	cfg.SliceTicks = slice
	return cfg
}

func runScenario(t *testing.T, cfg sched.Config, sc Scenario) *Report {
	t.Helper()
	s, err := New(cfg, sc, quietLogger())
	require.NoError(t, err)
	r, err := s.Run()
	require.NoError(t, err)
	return r
}

func dispatchPIDs(r *Report) []sched.PID {
	var pids []sched.PID
	for _, ev := range r.Dispatches() {
		pids = append(pids, ev.PID)
	}
	return pids
}

// drainCheck records how many entries the wrapped policy still held when the
// run ended, before Cleanup released them.
type drainCheck struct {
	sched.Policy
	liveAtCleanup int
}

func (c *drainCheck) Cleanup() {
	c.liveAtCleanup = c.Policy.Queues().Live()
	c.Policy.Cleanup()
}
