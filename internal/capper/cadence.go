package capper

import "log/slog"

// Cadence defaults, in ticks.
const (
	DefaultShortDelay = 2
	DefaultDayTicks   = 60000
)

// Cadence picks the delay until the next check.
type Cadence struct {
	ShortDelay uint64 // After a cycle with a removal
	FullDelay  uint64 // After a quiet cycle (one sim-day)
}

// DefaultCadence returns the two-tick / one-day cadence.
func DefaultCadence() Cadence {
	return Cadence{ShortDelay: DefaultShortDelay, FullDelay: DefaultDayTicks}
}

// Delay returns the wait after a cycle, depending on whether it removed anything.
func (c Cadence) Delay(removed bool) uint64 {
	if removed {
		return c.ShortDelay
	}
	return c.FullDelay
}

// State is the scheduler state carried between checks.
type State struct {
	NextCheckTick       uint64 `json:"next_check_tick"`
	LastRemovalOccurred bool   `json:"last_removal_occurred"`
}

// Due reports whether a check should run at tick now.
func (s State) Due(now uint64) bool {
	return now >= s.NextCheckTick
}

// Capper bundles the host capabilities with a cadence. It holds no mutable
// state; scheduler state flows in and out of Run and Step.
type Capper struct {
	Cadence  Cadence
	Eligible EligibilityPredicate
	Remover  Remover
	Logger   *slog.Logger
}

func (c Capper) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Run performs a check at tick now regardless of the schedule and returns
// the state for the next cycle.
func (c Capper) Run(now uint64, zones []Zone, maxPopulation int) (State, Result) {
	res := checkLimit(zones, maxPopulation, c.Eligible, c.Remover, c.logger())
	removed := res.RemovalOccurred()
	return State{
		NextCheckTick:       now + c.Cadence.Delay(removed),
		LastRemovalOccurred: removed,
	}, res
}

// Step runs a check only if state is due at now. The returned bool reports
// whether a check ran; when it did not, state is returned unchanged.
func (c Capper) Step(state State, now uint64, zones []Zone, maxPopulation int) (State, Result, bool) {
	if !state.Due(now) {
		return state, Result{}, false
	}
	next, res := c.Run(now, zones, maxPopulation)
	return next, res, true
}
