package capper

import "sync"

// Controller owns the scheduler state for a running host and serializes
// checks, so a tick loop and an admin surface can share one capper.
type Controller struct {
	mu     sync.Mutex
	capper Capper
	zones  ZoneSource
	limit  LimitSource
	state  State
	checks uint64
}

// NewController creates a controller starting from the given state. A zero
// state makes the first tick due immediately.
func NewController(c Capper, zones ZoneSource, limit LimitSource, initial State) *Controller {
	return &Controller{
		capper: c,
		zones:  zones,
		limit:  limit,
		state:  initial,
	}
}

// Tick runs a check if one is due at now. Zones are only gathered when due.
func (c *Controller) Tick(now uint64) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Due(now) {
		return Result{}, false
	}
	return c.runLocked(now), true
}

// ForceCheck runs a check at now regardless of the schedule.
func (c *Controller) ForceCheck(now uint64) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runLocked(now)
}

func (c *Controller) runLocked(now uint64) Result {
	next, res := c.capper.Run(now, c.zones.Zones(), c.limit.MaxPopulation())
	c.state = next
	c.checks++
	return res
}

// State returns a copy of the current scheduler state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Restore replaces the scheduler state, e.g. after loading a saved world.
func (c *Controller) Restore(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Checks returns how many checks have run since the controller was created.
func (c *Controller) Checks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checks
}
