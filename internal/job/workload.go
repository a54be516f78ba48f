// Package job generates synthetic process workloads for the simulator.
package job

import (
	"fmt"
	"math/rand"

	"procsched/internal/sim"
)

// Config shapes a generated workload. Durations are in ticks.
type Config struct {
	Seed         int64
	Processes    int
	MaxArrival   int64 // arrivals are uniform in [0, MaxArrival]
	MinCPU       int64
	MaxCPU       int64
	MinIO        int64
	MaxIO        int64
	MaxIOBursts  int // each process blocks between 0 and MaxIOBursts times
	TicketLevels []int
}

// DefaultConfig returns a small mixed CPU/I-O workload.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		Processes:    5,
		MaxArrival:   20,
		MinCPU:       1,
		MaxCPU:       12,
		MinIO:        1,
		MaxIO:        8,
		MaxIOBursts:  2,
		TicketLevels: []int{50, 100, 200},
	}
}

func (c Config) validate() error {
	switch {
	case c.Processes <= 0:
		return fmt.Errorf("processes must be positive, got %d", c.Processes)
	case c.MaxArrival < 0:
		return fmt.Errorf("max arrival must not be negative, got %d", c.MaxArrival)
	case c.MinCPU <= 0 || c.MaxCPU < c.MinCPU:
		return fmt.Errorf("cpu burst range [%d, %d] is invalid", c.MinCPU, c.MaxCPU)
	case c.MaxIOBursts < 0:
		return fmt.Errorf("max io bursts must not be negative, got %d", c.MaxIOBursts)
	case c.MaxIOBursts > 0 && (c.MinIO <= 0 || c.MaxIO < c.MinIO):
		return fmt.Errorf("io burst range [%d, %d] is invalid", c.MinIO, c.MaxIO)
	}
	for _, t := range c.TicketLevels {
		if t <= 0 {
			return fmt.Errorf("ticket levels must be positive, got %d", t)
		}
	}
	return nil
}

// Generate builds a scenario from cfg. The same config always yields the same scenario.
func Generate(cfg Config) (sim.Scenario, error) {
	if err := cfg.validate(); err != nil {
		return sim.Scenario{}, fmt.Errorf("generate workload: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	sc := sim.Scenario{Name: fmt.Sprintf("generated-seed-%d", cfg.Seed)}
	for pid := 0; pid < cfg.Processes; pid++ {
		spec := sim.ProcessSpec{
			PID:     pid,
			Arrival: rng.Int63n(cfg.MaxArrival + 1),
			Tickets: sim.DefaultTickets,
		}
		if len(cfg.TicketLevels) > 0 {
			spec.Tickets = cfg.TicketLevels[rng.Intn(len(cfg.TicketLevels))]
		}

		ioBursts := 0
		if cfg.MaxIOBursts > 0 {
			ioBursts = rng.Intn(cfg.MaxIOBursts + 1)
		}
		spec.Bursts = append(spec.Bursts, between(rng, cfg.MinCPU, cfg.MaxCPU))
		for i := 0; i < ioBursts; i++ {
			spec.Bursts = append(spec.Bursts,
				between(rng, cfg.MinIO, cfg.MaxIO),
				between(rng, cfg.MinCPU, cfg.MaxCPU))
		}
		sc.Processes = append(sc.Processes, spec)
	}
	return sc, nil
}

// between returns a uniform value in [lo, hi].
func between(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}
