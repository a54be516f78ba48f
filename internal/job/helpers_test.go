package job

import (
	"io"

	"github.com/sirupsen/logrus"

	"procsched/internal/sched"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func defaultSchedConfig(policy string) sched.Config {
	cfg := sched.DefaultConfig()
	cfg.Policy = policy
	return cfg
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
