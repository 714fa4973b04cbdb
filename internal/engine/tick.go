// Package engine provides the tick-based simulation loop and the wildlife
// simulation that the population limit runs inside.
package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	DayTicks uint64        // Ticks per sim-day

	running atomic.Bool

	// Callbacks for each tick layer, populated during setup.
	OnTick func(tick uint64) // Every tick
	OnHour func(tick uint64) // Every DayTicks/24 ticks
	OnDay  func(tick uint64) // Every DayTicks ticks
}

// NewEngine creates a simulation engine with default settings.
func NewEngine(dayTicks uint64) *Engine {
	if dayTicks == 0 {
		dayTicks = DefaultDayTicks
	}
	return &Engine{
		Speed:    1.0,
		Interval: time.Millisecond,
		DayTicks: dayTicks,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed, "interval", e.Interval)

	for e.running.Load() {
		if e.Speed <= 0 {
			// Paused; sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Advance runs n ticks synchronously, without pacing.
func (e *Engine) Advance(n uint64) {
	for i := uint64(0); i < n; i++ {
		e.step()
	}
}

func (e *Engine) hourTicks() uint64 {
	return max(e.DayTicks/24, 1)
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.Tick%e.hourTicks() == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}
	if e.Tick%e.DayTicks == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
}

// SimTime returns a human-readable simulation time string from a tick number.
// A year is four 15-day seasons.
func SimTime(tick, dayTicks uint64) string {
	if dayTicks == 0 {
		dayTicks = DefaultDayTicks
	}
	totalDays := tick / dayTicks
	hour := (tick % dayTicks) * 24 / dayTicks
	day := totalDays%15 + 1
	seasons := totalDays / 15
	season := seasons % 4
	year := seasons/4 + 1

	seasonNames := [4]string{"Spring", "Summer", "Fall", "Winter"}

	return fmt.Sprintf("%s Day %d, %02dh Year %d", seasonNames[season], day, hour, year)
}
