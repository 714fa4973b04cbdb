// Package fauna provides the creature data model, the species catalog and
// the seeded spawner that populates maps with wildlife.
package fauna

import (
	"golang.org/x/exp/slices"

	"github.com/talgya/wildlife-control/internal/world"
)

// DaysPerYear is the number of sim-days in one sim-year.
const DaysPerYear = 60

// Species is a race definition. Only Animal races can count as wildlife.
type Species struct {
	DefName        string        `json:"def_name"`
	Label          string        `json:"label"`
	Animal         bool          `json:"animal"`
	LifeExpectancy float64       `json:"life_expectancy"` // Sim-years
	HerdMin        int           `json:"herd_min"`
	HerdMax        int           `json:"herd_max"`
	BirthChance    float64       `json:"birth_chance"` // Daily chance per adult of one offspring
	Commonality    float64       `json:"commonality"`  // Relative spawn weight within a biome
	Biomes         []world.Biome `json:"biomes"`
}

// LivesIn reports whether the species spawns in biome b.
func (s Species) LivesIn(b world.Biome) bool {
	return slices.Contains(s.Biomes, b)
}

// Catalog is an ordered, indexed set of species.
type Catalog struct {
	list  []Species
	index map[string]int
}

// NewCatalog builds a catalog; later duplicates of a DefName replace earlier ones.
func NewCatalog(species []Species) *Catalog {
	c := &Catalog{index: make(map[string]int, len(species))}
	for _, sp := range species {
		if i, ok := c.index[sp.DefName]; ok {
			c.list[i] = sp
			continue
		}
		c.index[sp.DefName] = len(c.list)
		c.list = append(c.list, sp)
	}
	return c
}

// Lookup returns the species with the given def name.
func (c *Catalog) Lookup(def string) (Species, bool) {
	i, ok := c.index[def]
	if !ok {
		return Species{}, false
	}
	return c.list[i], true
}

// All returns every species in catalog order.
func (c *Catalog) All() []Species {
	return slices.Clone(c.list)
}

// ForBiome returns the species that spawn in biome b, in catalog order.
func (c *Catalog) ForBiome(b world.Biome) []Species {
	var out []Species
	for _, sp := range c.list {
		if sp.LivesIn(b) {
			out = append(out, sp)
		}
	}
	return out
}

// DefaultCatalog returns the stock species set.
func DefaultCatalog() *Catalog {
	temperate := world.BiomeTemperateForest
	boreal := world.BiomeBorealForest
	tundra := world.BiomeTundra
	arid := world.BiomeAridShrubland
	desert := world.BiomeDesert
	tropical := world.BiomeTropicalRainforest
	swamp := world.BiomeSwamp

	return NewCatalog([]Species{
		{DefName: "Deer", Label: "deer", Animal: true, LifeExpectancy: 15, HerdMin: 2, HerdMax: 5, BirthChance: 0.010, Commonality: 1.0, Biomes: []world.Biome{temperate, boreal}},
		{DefName: "Boar", Label: "wild boar", Animal: true, LifeExpectancy: 15, HerdMin: 1, HerdMax: 4, BirthChance: 0.014, Commonality: 0.8, Biomes: []world.Biome{temperate, swamp}},
		{DefName: "Hare", Label: "hare", Animal: true, LifeExpectancy: 8, HerdMin: 1, HerdMax: 3, BirthChance: 0.025, Commonality: 1.2, Biomes: []world.Biome{temperate, boreal, arid}},
		{DefName: "Elk", Label: "elk", Animal: true, LifeExpectancy: 15, HerdMin: 2, HerdMax: 6, BirthChance: 0.008, Commonality: 0.7, Biomes: []world.Biome{boreal}},
		{DefName: "Wolf_Timber", Label: "timber wolf", Animal: true, LifeExpectancy: 12, HerdMin: 3, HerdMax: 6, BirthChance: 0.006, Commonality: 0.3, Biomes: []world.Biome{boreal, tundra}},
		{DefName: "Caribou", Label: "caribou", Animal: true, LifeExpectancy: 15, HerdMin: 3, HerdMax: 8, BirthChance: 0.008, Commonality: 1.0, Biomes: []world.Biome{tundra}},
		{DefName: "Muffalo", Label: "muffalo", Animal: true, LifeExpectancy: 15, HerdMin: 3, HerdMax: 7, BirthChance: 0.007, Commonality: 0.8, Biomes: []world.Biome{tundra, boreal, arid}},
		{DefName: "Fox_Arctic", Label: "arctic fox", Animal: true, LifeExpectancy: 12, HerdMin: 1, HerdMax: 2, BirthChance: 0.012, Commonality: 0.5, Biomes: []world.Biome{tundra}},
		{DefName: "Ibex", Label: "ibex", Animal: true, LifeExpectancy: 16, HerdMin: 2, HerdMax: 5, BirthChance: 0.009, Commonality: 0.9, Biomes: []world.Biome{arid}},
		{DefName: "Gazelle", Label: "gazelle", Animal: true, LifeExpectancy: 12, HerdMin: 3, HerdMax: 8, BirthChance: 0.010, Commonality: 0.9, Biomes: []world.Biome{arid, desert}},
		{DefName: "Iguana", Label: "iguana", Animal: true, LifeExpectancy: 15, HerdMin: 1, HerdMax: 2, BirthChance: 0.012, Commonality: 0.8, Biomes: []world.Biome{arid, desert, tropical}},
		{DefName: "Dromedary", Label: "dromedary", Animal: true, LifeExpectancy: 30, HerdMin: 2, HerdMax: 4, BirthChance: 0.005, Commonality: 0.6, Biomes: []world.Biome{desert}},
		{DefName: "Monkey", Label: "monkey", Animal: true, LifeExpectancy: 20, HerdMin: 2, HerdMax: 6, BirthChance: 0.010, Commonality: 1.0, Biomes: []world.Biome{tropical}},
		{DefName: "Capybara", Label: "capybara", Animal: true, LifeExpectancy: 10, HerdMin: 2, HerdMax: 5, BirthChance: 0.015, Commonality: 0.9, Biomes: []world.Biome{tropical, swamp}},
		{DefName: "Cobra", Label: "cobra", Animal: true, LifeExpectancy: 20, HerdMin: 1, HerdMax: 1, BirthChance: 0.008, Commonality: 0.4, Biomes: []world.Biome{tropical, desert}},
		{DefName: "Alligator", Label: "alligator", Animal: true, LifeExpectancy: 50, HerdMin: 1, HerdMax: 2, BirthChance: 0.004, Commonality: 0.5, Biomes: []world.Biome{swamp}},
		{DefName: "Thrumbo", Label: "thrumbo", Animal: true, LifeExpectancy: 220, HerdMin: 1, HerdMax: 1, BirthChance: 0.001, Commonality: 0.02, Biomes: []world.Biome{temperate, boreal, tropical}},
		// Wanderers without a faction are not animals and never count as wildlife.
		{DefName: "WildMan", Label: "wild man", Animal: false, LifeExpectancy: 80, HerdMin: 1, HerdMax: 1, BirthChance: 0, Commonality: 0.05, Biomes: []world.Biome{temperate, boreal, tundra, arid, desert, tropical, swamp}},
	})
}
