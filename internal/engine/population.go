// Wildlife dynamics: aging, natural death, injuries, births, herds wandering
// in and colonists taming animals. These keep pushing maps over the limit.
package engine

import (
	"fmt"

	"github.com/talgya/wildlife-control/internal/fauna"
)

// Dynamics holds the daily rates of the wildlife model.
type Dynamics struct {
	InjuryChance    float64 // Daily chance per wild creature of a new hediff
	MigrationChance float64 // Daily chance per map (scaled by fertility) of a herd wandering in
	TameChance      float64 // Daily chance per map of the colony taming one wild animal
	HealPerHour     float64 // Severity healed per sim-hour on non-permanent hediffs
	OldAgeMortality float64 // Daily death chance per unit of age ratio beyond 1.0
	MaturityRatio   float64 // Age ratio at which a creature can breed
}

// DefaultDynamics returns rates tuned so maps drift above the default limit.
func DefaultDynamics() Dynamics {
	return Dynamics{
		InjuryChance:    0.01,
		MigrationChance: 0.35,
		TameChance:      0.05,
		HealPerHour:     0.004,
		OldAgeMortality: 0.2,
		MaturityRatio:   0.15,
	}
}

// processWildlife advances every map by one sim-day.
func (s *Simulation) processWildlife(tick uint64) {
	s.ageCreatures()
	s.processDeaths(tick)
	s.processInjuries()
	s.processBirths(tick)
	s.processMigration(tick)
	s.processTaming(tick)
}

// ageCreatures adds one sim-day of biological age to every spawned creature.
func (s *Simulation) ageCreatures() {
	for _, c := range s.Creatures {
		if c.Spawned {
			c.AgeBiologicalTicks += s.DayTicks
		}
	}
}

// processDeaths kills creatures with no health left and rolls old-age death
// for those past their life expectancy.
func (s *Simulation) processDeaths(tick uint64) {
	for _, c := range s.Creatures {
		if !c.Spawned {
			continue
		}
		sp, _ := s.Catalog.Lookup(c.Def)

		if c.SummaryHealth() <= 0 {
			c.Destroy()
			s.Stats.Deaths++
			s.addEvent(tick, "death", "a %s succumbed to its wounds on %s", s.speciesLabel(c.Def), s.mapName(c.MapID))
			continue
		}

		if sp.LifeExpectancy <= 0 {
			continue
		}
		ratio := c.AgeYears(s.DayTicks) / sp.LifeExpectancy
		if ratio > 1 && s.rng.Float64() < s.Dynamics.OldAgeMortality*(ratio-1+0.05) {
			c.Destroy()
			s.Stats.Deaths++
			s.addEvent(tick, "death", "a %s died of old age on %s", s.speciesLabel(c.Def), s.mapName(c.MapID))
		}
	}
}

// processInjuries gives wild creatures the odd fight, fall or frostbite.
func (s *Simulation) processInjuries() {
	for _, c := range s.Creatures {
		if c.Spawned && s.isWild(c) && s.rng.Float64() < s.Dynamics.InjuryChance {
			c.Hediffs = append(c.Hediffs, fauna.RandomInjury(s.rng))
		}
	}
}

// processBirths lets mature wild animals breed, scaled by map fertility.
func (s *Simulation) processBirths(tick uint64) {
	var born []*fauna.Creature
	for _, m := range s.Maps {
		for _, c := range s.MapCreatures[m.ID] {
			if !c.Spawned || !s.isWild(c) {
				continue
			}
			sp, _ := s.Catalog.Lookup(c.Def)
			if sp.LifeExpectancy <= 0 || c.AgeYears(s.DayTicks)/sp.LifeExpectancy < s.Dynamics.MaturityRatio {
				continue
			}
			if s.rng.Float64() < sp.BirthChance*m.Fertility {
				born = append(born, s.Spawner.SpawnOffspring(c, tick))
			}
		}
	}
	for _, c := range born {
		s.addCreature(c)
		s.Stats.Births++
	}
	if len(born) > 0 {
		s.addEvent(tick, "birth", "%d wild animals were born", len(born))
	}
}

// processMigration brings a mature herd onto fertile maps now and then.
func (s *Simulation) processMigration(tick uint64) {
	for _, m := range s.Maps {
		if s.rng.Float64() >= s.Dynamics.MigrationChance*m.Fertility {
			continue
		}
		sp, ok := s.Spawner.PickSpecies(m.Biome)
		if !ok {
			continue
		}
		herd := s.Spawner.SpawnHerd(m, sp, tick, true)
		for _, c := range herd {
			s.addCreature(c)
		}
		s.Stats.Migrations++
		s.addEvent(tick, "migration", "%s wandered into %s", herdLabel(len(herd), s.speciesLabel(sp.DefName)), m.Name)
	}
}

// processTaming has the colony tame one wild animal on a map now and then.
func (s *Simulation) processTaming(tick uint64) {
	for _, m := range s.Maps {
		if s.rng.Float64() >= s.Dynamics.TameChance {
			continue
		}
		var wild []*fauna.Creature
		for _, c := range s.MapCreatures[m.ID] {
			if s.isWild(c) {
				wild = append(wild, c)
			}
		}
		if len(wild) == 0 {
			continue
		}
		c := wild[s.rng.Intn(len(wild))]
		faction := ColonyFaction
		c.FactionID = &faction
		s.addEvent(tick, "tamed", "a %s was tamed on %s", s.speciesLabel(c.Def), m.Name)
	}
}

func herdLabel(n int, label string) string {
	if n == 1 {
		return "a lone " + label
	}
	return fmt.Sprintf("a herd of %d %s", n, label)
}
