package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procsched/internal/job"
	"procsched/internal/sim"
)

// resetFlags puts every flag back to its default; cobra keeps flag state
// between Execute calls.
func resetFlags() {
	for _, c := range []*cobra.Command{runCmd, genCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Value.Type() != "intSlice" {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	genCfg = job.DefaultConfig()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenCmd_EmitsValidScenario(t *testing.T) {
	out, err := execute(t, "gen", "--procs", "4", "--seed", "3")
	require.NoError(t, err)

	sc, err := sim.ParseScenario([]byte(out))
	require.NoError(t, err)
	assert.Len(t, sc.Processes, 4)
}

func TestRunCmd_ScenarioFileAndCSV(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(scenario, []byte(`
processes:
  - pid: 1
    bursts: [10]
  - pid: 2
    arrival: 2
    bursts: [4]
`), 0o644))
	trace := filepath.Join(dir, "trace.csv")

	out, err := execute(t, "run", "--policy", "stcf", "--scenario", scenario, "--csv", trace, "--log", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Policy           : stcf")
	assert.Contains(t, out, "Context switches : 3")

	data, err := os.ReadFile(trace)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick,event,pid,from")
}

func TestRunCmd_ConfigFileSetsPolicy(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(config, []byte("policy: stride\nslice_ticks: 2\nlog_level: error\n"), 0o644))

	out, err := execute(t, "run", "--config", config, "--procs", "3", "--scenario", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Policy           : stride")
}

func TestRunCmd_UnknownPolicy(t *testing.T) {
	_, err := execute(t, "run", "--policy", "lottery", "--log", "error", "--scenario", "")
	assert.Error(t, err)
}
