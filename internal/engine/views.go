package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/fauna"
	"github.com/talgya/wildlife-control/internal/world"
)

func (s *Simulation) addEvent(tick uint64, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

// Status is the world summary served by the API.
type Status struct {
	Tick           uint64       `json:"tick"`
	SimTime        string       `json:"sim_time"`
	Maps           int          `json:"maps"`
	MaxWildAnimals int          `json:"max_wild_animals"`
	Capper         capper.State `json:"capper"`
	Checks         uint64       `json:"checks"`
	Stats          SimStats     `json:"stats"`
}

// Status returns a consistent summary of the world.
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateStats()
	return Status{
		Tick:           s.LastTick,
		SimTime:        SimTime(s.LastTick, s.DayTicks),
		Maps:           len(s.Maps),
		MaxWildAnimals: s.Settings.MaxWildAnimals(),
		Capper:         s.Capper.State(),
		Checks:         s.Capper.Checks(),
		Stats:          s.Stats,
	}
}

// MapSummary describes one map's population.
type MapSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Biome     string         `json:"biome"`
	Fertility float64        `json:"fertility"`
	Creatures int            `json:"creatures"`
	Wild      int            `json:"wild"`
	Species   map[string]int `json:"species"` // wild count per species def
	OverLimit bool           `json:"over_limit"`
}

// MapSummaries returns one summary per map, in map order.
func (s *Simulation) MapSummaries() []MapSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := s.Settings.MaxWildAnimals()
	out := make([]MapSummary, 0, len(s.Maps))
	for _, m := range s.Maps {
		sum := MapSummary{
			ID:        m.ID,
			Name:      m.Name,
			Biome:     world.BiomeName(m.Biome),
			Fertility: m.Fertility,
			Species:   make(map[string]int),
		}
		for _, c := range s.MapCreatures[m.ID] {
			if !c.Spawned {
				continue
			}
			sum.Creatures++
			if s.isWild(c) {
				sum.Wild++
				sum.Species[c.Def]++
			}
		}
		sum.OverLimit = sum.Wild > limit
		out = append(out, sum)
	}
	return out
}

// Ranking returns the wild creatures of a map in removal order, at most n
// (n <= 0 means all). ok is false for an unknown map.
func (s *Simulation) Ranking(mapID string, n int) ([]capper.Individual, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.MapIndex[mapID]; !ok {
		return nil, false
	}
	var wild []capper.Individual
	for _, c := range s.MapCreatures[mapID] {
		if !s.isWild(c) {
			continue
		}
		sp, _ := s.Catalog.Lookup(c.Def)
		wild = append(wild, fauna.Individual(c, sp, s.DayTicks))
	}
	ranked := capper.Rank(wild)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, true
}

// RecentEvents returns up to n of the newest events, newest first.
func (s *Simulation) RecentEvents(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if n > 0 && len(s.Events) > n {
		start = len(s.Events) - n
	}
	out := make([]Event, 0, len(s.Events)-start)
	for i := len(s.Events) - 1; i >= start; i-- {
		out = append(out, s.Events[i])
	}
	return out
}

// WorldSnapshot is a deep copy of the persistent world state.
type WorldSnapshot struct {
	Tick      uint64
	Maps      []world.Map
	Creatures []fauna.Creature // Spawned only
	Capper    capper.State
}

// Snapshot copies the world state for saving.
func (s *Simulation) Snapshot() WorldSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := WorldSnapshot{
		Tick:   s.LastTick,
		Maps:   make([]world.Map, 0, len(s.Maps)),
		Capper: s.Capper.State(),
	}
	for _, m := range s.Maps {
		snap.Maps = append(snap.Maps, *m)
	}
	for _, c := range s.Creatures {
		if !c.Spawned {
			continue
		}
		cp := *c
		cp.Hediffs = append([]fauna.Hediff(nil), c.Hediffs...)
		if c.FactionID != nil {
			f := *c.FactionID
			cp.FactionID = &f
		}
		snap.Creatures = append(snap.Creatures, cp)
	}
	sort.SliceStable(snap.Creatures, func(i, j int) bool {
		return snap.Creatures[i].MapID < snap.Creatures[j].MapID
	})
	return snap
}

// DrainRemovals returns and clears the removals recorded since the last drain.
func (s *Simulation) DrainRemovals() []RemovalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.removals
	s.removals = nil
	return out
}

// RequeueRemovals puts records taken by DrainRemovals back ahead of any
// recorded since, for when they could not be saved.
func (s *Simulation) RequeueRemovals(records []RemovalRecord) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removals = append(append([]RemovalRecord(nil), records...), s.removals...)
}

// PendingRemovals returns the undrained removals, newest first.
func (s *Simulation) PendingRemovals() []RemovalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RemovalRecord, 0, len(s.removals))
	for i := len(s.removals) - 1; i >= 0; i-- {
		out = append(out, s.removals[i])
	}
	return out
}

// Restore resumes from a saved tick and scheduler state.
func (s *Simulation) Restore(tick uint64, state capper.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.Capper.Restore(state)
}

// RestoreRemovalCount seeds the lifetime removal counter from saved history.
func (s *Simulation) RestoreRemovalCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Stats.Removals = n
}
