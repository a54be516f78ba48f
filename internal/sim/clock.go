// internal/sim/clock.go

package sim

// Clock is the simulator's virtual time source, counted in ticks.
// It only moves forward.
type Clock struct {
	count int64
}

// Now returns the current tick.
func (c *Clock) Now() int64 { return c.count }

// Advance moves the clock one tick forward and returns the new tick.
func (c *Clock) Advance() int64 {
	c.count++
	return c.count
}

// AdvanceTo jumps forward to tick and returns how many ticks were skipped.
// Ticks in the past are ignored.
func (c *Clock) AdvanceTo(tick int64) int64 {
	if tick <= c.count {
		return 0
	}
	skipped := tick - c.count
	c.count = tick
	return skipped
}
