package world

import "fmt"

// Biome classifies a map's climate; it decides which species live there.
type Biome uint8

const (
	BiomeTemperateForest Biome = iota // Deer, boar, hares
	BiomeBorealForest                 // Elk, wolves, hares
	BiomeTundra                       // Caribou, muffalo, arctic foxes
	BiomeAridShrubland                // Ibex, gazelle, iguanas
	BiomeDesert                       // Camels, iguanas, scorpion-grade vermin
	BiomeTropicalRainforest           // Monkeys, capybara, cobras
	BiomeSwamp                        // Alligators, capybara, boar
)

// NumBiomes is the total number of biomes.
const NumBiomes = 7

// BiomeName returns a human-readable name for a biome.
func BiomeName(b Biome) string {
	switch b {
	case BiomeTemperateForest:
		return "Temperate forest"
	case BiomeBorealForest:
		return "Boreal forest"
	case BiomeTundra:
		return "Tundra"
	case BiomeAridShrubland:
		return "Arid shrubland"
	case BiomeDesert:
		return "Desert"
	case BiomeTropicalRainforest:
		return "Tropical rainforest"
	case BiomeSwamp:
		return "Swamp"
	default:
		return "Unknown"
	}
}

// Map is one settled or visited location. It is the zone the population
// limit is applied to; creatures on it are tracked by the simulation.
type Map struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tile        HexCoord `json:"tile"`
	Biome       Biome    `json:"biome"`
	Elevation   float64  `json:"elevation"`   // 0.0 (sea level) to 1.0 (peak)
	Rainfall    float64  `json:"rainfall"`    // 0.0 (arid) to 1.0 (tropical)
	Temperature float64  `json:"temperature"` // 0.0 (frozen) to 1.0 (hot)
	Fertility   float64  `json:"fertility"`   // 0.0–1.0, scales wildlife spawning
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%s %q, %s, fertility=%.2f)", m.ID, m.Name, BiomeName(m.Biome), m.Fertility)
}

// Index returns maps keyed by ID.
func Index(maps []*Map) map[string]*Map {
	idx := make(map[string]*Map, len(maps))
	for _, m := range maps {
		idx[m.ID] = m
	}
	return idx
}
