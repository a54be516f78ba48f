package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
name: mixed
processes:
  - pid: 1
    arrival: 0
    tickets: 200
    bursts: [5, 3, 2]
  - pid: 2
    arrival: 4
    bursts: [7]
`

func TestParseScenario_DecodesAndDefaultsTickets(t *testing.T) {
	sc, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "mixed", sc.Name)
	require.Len(t, sc.Processes, 2)
	assert.Equal(t, ProcessSpec{PID: 1, Arrival: 0, Tickets: 200, Bursts: []int64{5, 3, 2}}, sc.Processes[0])
	assert.Equal(t, DefaultTickets, sc.Processes[1].Tickets)
}

func TestLoadScenario_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScenario), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, sc.Processes, 2)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
	}{
		{"empty", Scenario{}},
		{"negative pid", Scenario{Processes: []ProcessSpec{{PID: -1, Bursts: []int64{1}}}}},
		{"duplicate pid", Scenario{Processes: []ProcessSpec{{PID: 1, Bursts: []int64{1}}, {PID: 1, Bursts: []int64{1}}}}},
		{"negative arrival", Scenario{Processes: []ProcessSpec{{PID: 1, Arrival: -3, Bursts: []int64{1}}}}},
		{"negative tickets", Scenario{Processes: []ProcessSpec{{PID: 1, Tickets: -5, Bursts: []int64{1}}}}},
		{"ends with io", Scenario{Processes: []ProcessSpec{{PID: 1, Bursts: []int64{1, 2}}}}},
		{"no bursts", Scenario{Processes: []ProcessSpec{{PID: 1}}}},
		{"zero burst", Scenario{Processes: []ProcessSpec{{PID: 1, Bursts: []int64{1, 0, 1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.sc.Validate(), ErrInvalidScenario)
		})
	}
}

func TestScenario_MarshalCanBeParsedBack(t *testing.T) {
	sc, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	data, err := sc.Marshal()
	require.NoError(t, err)
	again, err := ParseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, sc, again)
}
