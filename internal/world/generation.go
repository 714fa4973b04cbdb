// Map generation using layered simplex noise sampled at each map's planet tile.
// Elevation, rainfall and temperature decide the biome; rainfall and
// temperature decide how much wildlife the land carries.
package world

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Maps         int   // Number of maps to generate
	PlanetRadius int   // Hex radius of the planet tile grid
	MinSpacing   int   // Minimum hex distance between two maps
	Seed         int64 // Random seed (0 = random)
}

// DefaultGenConfig returns a small colony-scale configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Maps:         3,
		PlanetRadius: 40,
		MinSpacing:   4,
		Seed:         0,
	}
}

var mapNames = []string{
	"Ashfall Hollow", "Brindle Reach", "Cinder Ford", "Dunmere", "Elkrun",
	"Fallowmarch", "Greywater", "Hartsfell", "Ironbrook", "Juniper Flats",
	"Kestrel Moor", "Lowmeadow", "Mirefield", "Northcairn", "Oxbow Bend",
	"Pinecrest", "Quarrystead", "Redfern", "Saltmarsh", "Thornwick",
}

// Generate places cfg.Maps maps on distinct, spaced planet tiles.
// The same non-zero seed always yields the same maps.
func Generate(cfg GenConfig) []*Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.PlanetRadius <= 0 {
		cfg.PlanetRadius = DefaultGenConfig().PlanetRadius
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)
	rng := rand.New(rand.NewSource(seed + 200))

	var maps []*Map
	var taken []HexCoord
	for attempts := 0; len(maps) < cfg.Maps && attempts < cfg.Maps*200; attempts++ {
		tile := randomTile(rng, cfg.PlanetRadius)
		if tooClose(tile, taken, cfg.MinSpacing) {
			continue
		}

		x := float64(tile.Q) + float64(tile.R)*0.5
		y := float64(tile.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
		temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

		// Colder toward the poles and at altitude.
		temp = temp*0.6 + (1.0-math.Abs(y)/float64(cfg.PlanetRadius))*0.3 + (1.0-elev)*0.1

		n := len(maps)
		name := mapNames[n%len(mapNames)]
		if n >= len(mapNames) {
			name = fmt.Sprintf("%s %d", name, n/len(mapNames)+1)
		}

		maps = append(maps, &Map{
			ID:          fmt.Sprintf("map-%d", n+1),
			Name:        name,
			Tile:        tile,
			Biome:       deriveBiome(elev, rain, temp),
			Elevation:   elev,
			Rainfall:    rain,
			Temperature: temp,
			Fertility:   fertility(rain, temp),
		})
		taken = append(taken, tile)
	}
	return maps
}

func randomTile(rng *rand.Rand, radius int) HexCoord {
	for {
		q := rng.Intn(2*radius+1) - radius
		r := rng.Intn(2*radius+1) - radius
		c := HexCoord{Q: q, R: r}
		if abs(c.S()) <= radius {
			return c
		}
	}
}

func tooClose(tile HexCoord, taken []HexCoord, spacing int) bool {
	for _, t := range taken {
		if Distance(tile, t) < spacing {
			return true
		}
	}
	return false
}

// deriveBiome determines the biome from environmental parameters.
func deriveBiome(elev, rain, temp float64) Biome {
	switch {
	case temp < 0.3:
		return BiomeTundra
	case temp < 0.42:
		return BiomeBorealForest
	case rain < 0.3 && temp > 0.6:
		return BiomeDesert
	case rain < 0.4:
		return BiomeAridShrubland
	case rain > 0.65 && temp > 0.6:
		return BiomeTropicalRainforest
	case rain > 0.6 && elev < 0.4:
		return BiomeSwamp
	default:
		return BiomeTemperateForest
	}
}

// fertility peaks for warm, wet land and falls off toward frozen or arid.
func fertility(rain, temp float64) float64 {
	f := rain*0.6 + (1.0-math.Abs(temp-0.6)*1.5)*0.4
	return math.Max(0.05, math.Min(1.0, f))
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// BiomeCounts returns how many maps fall in each biome.
func BiomeCounts(maps []*Map) map[Biome]int {
	counts := make(map[Biome]int)
	for _, m := range maps {
		counts[m.Biome]++
	}
	return counts
}
