package sim

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// DefaultTickets is assigned to processes that do not set tickets.
const DefaultTickets = 100

// ErrInvalidScenario is wrapped by every scenario validation error.
var ErrInvalidScenario = errors.New("invalid scenario")

// ProcessSpec describes one simulated process. Bursts alternate CPU and I/O
// durations in ticks, starting and ending with a CPU burst.
type ProcessSpec struct {
	PID     int     `yaml:"pid"`
	Arrival int64   `yaml:"arrival"`
	Tickets int     `yaml:"tickets,omitempty"`
	Bursts  []int64 `yaml:"bursts"`
}

// Scenario is the workload fed to the simulator.
type Scenario struct {
	Name      string        `yaml:"name,omitempty"`
	Processes []ProcessSpec `yaml:"processes"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Marshal encodes the scenario as YAML.
func (sc Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(sc)
}

// Validate checks the scenario and fills in default tickets.
func (sc *Scenario) Validate() error {
	if len(sc.Processes) == 0 {
		return fmt.Errorf("%w: no processes", ErrInvalidScenario)
	}
	seen := make(map[int]bool, len(sc.Processes))
	for i := range sc.Processes {
		p := &sc.Processes[i]
		switch {
		case p.PID < 0:
			return fmt.Errorf("%w: process %d: negative pid %d", ErrInvalidScenario, i, p.PID)
		case seen[p.PID]:
			return fmt.Errorf("%w: duplicate pid %d", ErrInvalidScenario, p.PID)
		case p.Arrival < 0:
			return fmt.Errorf("%w: pid %d: negative arrival %d", ErrInvalidScenario, p.PID, p.Arrival)
		case p.Tickets < 0:
			return fmt.Errorf("%w: pid %d: negative tickets %d", ErrInvalidScenario, p.PID, p.Tickets)
		case len(p.Bursts)%2 == 0:
			return fmt.Errorf("%w: pid %d: bursts must alternate cpu/io and end with cpu, got %d", ErrInvalidScenario, p.PID, len(p.Bursts))
		}
		for j, b := range p.Bursts {
			if b <= 0 {
				return fmt.Errorf("%w: pid %d: burst %d is %d, want > 0", ErrInvalidScenario, p.PID, j, b)
			}
		}
		if p.Tickets == 0 {
			p.Tickets = DefaultTickets
		}
		seen[p.PID] = true
	}
	return nil
}
