// Simulation ties together maps, creatures and the population limit, and
// runs them each tick.
package engine

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/fauna"
	"github.com/talgya/wildlife-control/internal/settings"
	"github.com/talgya/wildlife-control/internal/world"
)

// DefaultDayTicks is the length of a sim-day in ticks.
const DefaultDayTicks = capper.DefaultDayTicks

// ColonyFaction is the player faction that tames wild animals.
const ColonyFaction uint64 = 1

// Options configures a Simulation.
type Options struct {
	Seed     int64
	DayTicks uint64
	Cadence  capper.Cadence
	Dynamics Dynamics
	Logger   *slog.Logger
}

// Simulation holds the complete world state and wires systems together.
// All exported methods are safe to call from the tick loop and the API
// concurrently.
type Simulation struct {
	mu sync.RWMutex

	Maps          []*world.Map
	MapIndex      map[string]*world.Map
	Creatures     []*fauna.Creature
	CreatureIndex map[string]*fauna.Creature
	MapCreatures  map[string][]*fauna.Creature // map ID → creatures, spawn order

	Catalog  *fauna.Catalog
	Spawner  *fauna.Spawner
	Settings *settings.Settings
	Capper   *capper.Controller

	Events   []Event         // Recent events, trimmed weekly
	removals []RemovalRecord // Not yet persisted
	LastTick uint64
	DayTicks uint64
	Dynamics Dynamics
	Stats    SimStats

	rng    *rand.Rand
	logger *slog.Logger
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "removal", "death", "birth", "migration", "tamed"
}

// RemovalRecord is one creature destroyed by the population limit.
type RemovalRecord struct {
	Tick            uint64  `json:"tick" db:"tick"`
	MapID           string  `json:"map_id" db:"map_id"`
	CreatureID      string  `json:"creature_id" db:"creature_id"`
	Species         string  `json:"species" db:"species"`
	Health          float64 `json:"health" db:"health"`
	PermanentInjury bool    `json:"permanent_injury" db:"permanent_injury"`
	AgeRatio        float64 `json:"age_ratio" db:"age_ratio"`
	EligibleCount   int     `json:"eligible_count" db:"eligible_count"`
	MaxPopulation   int     `json:"max_population" db:"max_population"`
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	TotalCreatures int `json:"total_creatures"`
	WildCreatures  int `json:"wild_creatures"`
	Tamed          int `json:"tamed"`
	Deaths         int `json:"deaths"`
	Births         int `json:"births"`
	Migrations     int `json:"migrations"`
	Removals       int `json:"removals"`
}

// NewSimulation creates a Simulation from generated or loaded components.
func NewSimulation(maps []*world.Map, creatures []*fauna.Creature, catalog *fauna.Catalog, spawner *fauna.Spawner, st *settings.Settings, opts Options) *Simulation {
	if opts.DayTicks == 0 {
		opts.DayTicks = DefaultDayTicks
	}
	if opts.Cadence == (capper.Cadence{}) {
		opts.Cadence = capper.Cadence{ShortDelay: capper.DefaultShortDelay, FullDelay: opts.DayTicks}
	}
	if opts.Dynamics == (Dynamics{}) {
		opts.Dynamics = DefaultDynamics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Simulation{
		Maps:          maps,
		MapIndex:      world.Index(maps),
		CreatureIndex: make(map[string]*fauna.Creature, len(creatures)),
		MapCreatures:  make(map[string][]*fauna.Creature, len(maps)),
		Catalog:       catalog,
		Spawner:       spawner,
		Settings:      st,
		DayTicks:      opts.DayTicks,
		Dynamics:      opts.Dynamics,
		rng:           rand.New(rand.NewSource(opts.Seed + 500)),
		logger:        opts.Logger,
	}
	for _, c := range creatures {
		s.addCreature(c)
	}

	host := capperHost{sim: s}
	s.Capper = capper.NewController(
		capper.Capper{
			Cadence:  opts.Cadence,
			Eligible: host.eligible,
			Remover:  host,
			Logger:   opts.Logger,
		},
		host,
		capper.LimitFunc(st.MaxWildAnimals),
		capper.State{},
	)

	s.updateStats()
	return s
}

// Tick runs every tick: the population limit check when it is due.
func (s *Simulation) Tick(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	if res, ran := s.Capper.Tick(tick); ran {
		s.recordCheck(tick, res)
	}
}

// ForceCheck runs the population limit check now, outside its cadence.
func (s *Simulation) ForceCheck() capper.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.Capper.ForceCheck(s.LastTick)
	s.recordCheck(s.LastTick, res)
	return res
}

func (s *Simulation) recordCheck(tick uint64, res capper.Result) {
	for _, r := range res.Removals {
		if r.Err != nil {
			continue
		}
		rec := RemovalRecord{
			Tick:            tick,
			MapID:           r.ZoneID,
			CreatureID:      r.Individual.ID,
			Species:         r.Individual.Species,
			Health:          r.Individual.HealthFraction,
			PermanentInjury: r.Individual.HasPermanentInjury,
			AgeRatio:        r.Individual.AgeRatio(),
			EligibleCount:   r.EligibleCount,
			MaxPopulation:   r.MaxPopulation,
		}
		s.removals = append(s.removals, rec)
		s.Stats.Removals++
		s.addEvent(tick, "removal", "a wild %s was culled on %s (%d/%d wild)",
			s.speciesLabel(rec.Species), s.mapName(rec.MapID), rec.EligibleCount, rec.MaxPopulation)
	}
}

// TickHour runs every sim-hour: wounds heal.
func (s *Simulation) TickHour(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	for _, c := range s.Creatures {
		if c.Spawned && len(c.Hediffs) > 0 {
			c.Heal(s.Dynamics.HealPerHour)
		}
	}
}

// TickDay runs every sim-day: wildlife dynamics and the daily report.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.processWildlife(tick)
	s.compact()
	s.updateStats()

	state := s.Capper.State()
	s.logger.Info("daily report",
		"tick", tick,
		"time", SimTime(tick, s.DayTicks),
		"creatures", humanize.Comma(int64(s.Stats.TotalCreatures)),
		"wild", humanize.Comma(int64(s.Stats.WildCreatures)),
		"limit", s.Settings.MaxWildAnimals(),
		"births", s.Stats.Births,
		"deaths", s.Stats.Deaths,
		"migrations", s.Stats.Migrations,
		"removals", humanize.Comma(int64(s.Stats.Removals)),
		"next_check", state.NextCheckTick,
	)

	// Trim old events to prevent unbounded growth (keep last 1000).
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// addCreature registers a creature in all indexes.
func (s *Simulation) addCreature(c *fauna.Creature) {
	s.Creatures = append(s.Creatures, c)
	s.CreatureIndex[c.ID] = c
	s.MapCreatures[c.MapID] = append(s.MapCreatures[c.MapID], c)
}

// compact drops despawned creatures from every index.
func (s *Simulation) compact() {
	alive := s.Creatures[:0]
	for _, c := range s.Creatures {
		if c.Spawned {
			alive = append(alive, c)
		} else {
			delete(s.CreatureIndex, c.ID)
		}
	}
	clear(s.Creatures[len(alive):])
	s.Creatures = alive

	for id, list := range s.MapCreatures {
		kept := list[:0]
		for _, c := range list {
			if c.Spawned {
				kept = append(kept, c)
			}
		}
		clear(list[len(kept):])
		s.MapCreatures[id] = kept
	}
}

func (s *Simulation) isWild(c *fauna.Creature) bool {
	sp, ok := s.Catalog.Lookup(c.Def)
	return ok && fauna.IsWild(c, sp)
}

func (s *Simulation) updateStats() {
	total, wild, tamed := 0, 0, 0
	for _, c := range s.Creatures {
		if !c.Spawned {
			continue
		}
		total++
		if s.isWild(c) {
			wild++
		}
		if c.FactionID != nil {
			tamed++
		}
	}
	s.Stats.TotalCreatures = total
	s.Stats.WildCreatures = wild
	s.Stats.Tamed = tamed
}

func (s *Simulation) speciesLabel(def string) string {
	if sp, ok := s.Catalog.Lookup(def); ok && sp.Label != "" {
		return sp.Label
	}
	return def
}

func (s *Simulation) mapName(id string) string {
	if m, ok := s.MapIndex[id]; ok {
		return m.Name
	}
	return id
}
