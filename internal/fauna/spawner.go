// Creature spawning: initial map populations, herds wandering in, births.
package fauna

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/wildlife-control/internal/world"
)

// DensityPerFertility is the initial wild population of a map at fertility 1.0.
const DensityPerFertility = 140

// Spawner creates creatures for the simulation.
type Spawner struct {
	rng      *rand.Rand
	catalog  *Catalog
	dayTicks uint64
}

// NewSpawner creates a creature spawner with the given seed.
func NewSpawner(seed int64, catalog *Catalog, dayTicks uint64) *Spawner {
	return &Spawner{
		rng:      rand.New(rand.NewSource(seed + 300)),
		catalog:  catalog,
		dayTicks: dayTicks,
	}
}

// InitialPopulation fills a freshly generated map with herds until it reaches
// its fertility-scaled density.
func (s *Spawner) InitialPopulation(m *world.Map, tick uint64) []*Creature {
	target := int(m.Fertility * DensityPerFertility)
	var out []*Creature
	for len(out) < target {
		sp, ok := s.PickSpecies(m.Biome)
		if !ok {
			break
		}
		out = append(out, s.SpawnHerd(m, sp, tick, true)...)
	}
	return out
}

// PickSpecies chooses a species for biome b, weighted by commonality.
func (s *Spawner) PickSpecies(b world.Biome) (Species, bool) {
	candidates := s.catalog.ForBiome(b)
	total := 0.0
	for _, sp := range candidates {
		total += sp.Commonality
	}
	if total <= 0 {
		return Species{}, false
	}
	roll := s.rng.Float64() * total
	for _, sp := range candidates {
		roll -= sp.Commonality
		if roll < 0 {
			return sp, true
		}
	}
	return candidates[len(candidates)-1], true
}

// SpawnHerd creates one herd of sp on m. Mature herds get random ages and
// occasional old injuries; otherwise every member is a newborn.
func (s *Spawner) SpawnHerd(m *world.Map, sp Species, tick uint64, mature bool) []*Creature {
	size := sp.HerdMin
	if sp.HerdMax > sp.HerdMin {
		size += s.rng.Intn(sp.HerdMax - sp.HerdMin + 1)
	}
	if size < 1 {
		size = 1
	}

	herd := make([]*Creature, 0, size)
	for i := 0; i < size; i++ {
		c := s.spawnOne(m.ID, sp, tick)
		if mature {
			lifespanTicks := sp.LifeExpectancy * float64(s.dayTicks*DaysPerYear)
			c.AgeBiologicalTicks = uint64(s.rng.Float64() * 0.9 * lifespanTicks)
			if s.rng.Float64() < 0.15 {
				c.Hediffs = append(c.Hediffs, RandomInjury(s.rng))
			}
		}
		herd = append(herd, c)
	}
	return herd
}

// SpawnOffspring creates a newborn of the parent's species beside it.
func (s *Spawner) SpawnOffspring(parent *Creature, tick uint64) *Creature {
	sp, _ := s.catalog.Lookup(parent.Def)
	return s.spawnOne(parent.MapID, sp, tick)
}

func (s *Spawner) spawnOne(mapID string, sp Species, tick uint64) *Creature {
	return &Creature{
		ID:       s.newID(),
		Def:      sp.DefName,
		MapID:    mapID,
		BornTick: tick,
		Spawned:  true,
	}
}

// newID draws a UUID from the seeded stream so a seed reproduces IDs.
func (s *Spawner) newID() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
