package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/fauna"
	"github.com/talgya/wildlife-control/internal/settings"
	"github.com/talgya/wildlife-control/internal/world"
)

const testDay = 100

// quiet disables every random process except healing; nothing ever matures.
var quiet = Dynamics{HealPerHour: 0.001, MaturityRatio: 2}

func yearsToTicks(years float64) uint64 {
	return uint64(years * testDay * fauna.DaysPerYear)
}

func creature(id, def, mapID string, ageYears float64, hediffs ...fauna.Hediff) *fauna.Creature {
	return &fauna.Creature{
		ID:                 id,
		Def:                def,
		MapID:              mapID,
		AgeBiologicalTicks: yearsToTicks(ageYears),
		Hediffs:            hediffs,
		Spawned:            true,
	}
}

func newTestSim(t *testing.T, limit int, creatures ...*fauna.Creature) *Simulation {
	t.Helper()
	maps := []*world.Map{
		{ID: "m1", Name: "Greywater", Biome: world.BiomeTemperateForest, Fertility: 0.5},
		{ID: "m2", Name: "Pinecrest", Biome: world.BiomeBorealForest, Fertility: 0.5},
	}
	catalog := fauna.DefaultCatalog()
	return NewSimulation(maps, creatures, catalog, fauna.NewSpawner(1, catalog, testDay), settings.New(limit), Options{
		Seed:     1,
		DayTicks: testDay,
		Dynamics: quiet,
	})
}

func TestSimulation_TickCullsOnlyWildAnimals(t *testing.T) {
	colony := ColonyFaction
	tame := creature("tame", "Deer", "m1", 14.9)
	tame.FactionID = &colony

	sim := newTestSim(t, 2,
		creature("d1", "Deer", "m1", 3),
		tame,
		creature("d2", "Deer", "m1", 9),
		creature("man", "WildMan", "m1", 79),
		creature("d3", "Deer", "m1", 6),
		creature("e1", "Elk", "m2", 1),
	)

	sim.Tick(1)
	state := sim.Capper.State()
	assert.Equal(t, capper.State{NextCheckTick: 1 + capper.DefaultShortDelay, LastRemovalOccurred: true}, state)
	assert.False(t, sim.CreatureIndex["d2"].Spawned, "oldest wild deer goes first")
	assert.True(t, sim.CreatureIndex["tame"].Spawned)
	assert.True(t, sim.CreatureIndex["man"].Spawned)

	sim.Tick(2)
	assert.Equal(t, uint64(1), sim.Capper.Checks())

	sim.Tick(3)
	state = sim.Capper.State()
	assert.False(t, state.LastRemovalOccurred)
	assert.Equal(t, uint64(3+testDay), state.NextCheckTick)

	removals := sim.DrainRemovals()
	require.Len(t, removals, 1)
	assert.Equal(t, "d2", removals[0].CreatureID)
	assert.Equal(t, "m1", removals[0].MapID)
	assert.Equal(t, 3, removals[0].EligibleCount)
	assert.Equal(t, 2, removals[0].MaxPopulation)
	assert.InDelta(t, 9.0/15.0, removals[0].AgeRatio, 1e-9)
	assert.Empty(t, sim.DrainRemovals())
}

func TestSimulation_UnhealthyPreferredWithinLargestSpecies(t *testing.T) {
	sim := newTestSim(t, 3,
		creature("h1", "Hare", "m1", 7),
		creature("h2", "Hare", "m1", 1, fauna.Hediff{Label: "bite", Severity: 0.2}),
		creature("h3", "Hare", "m1", 2),
		creature("b1", "Boar", "m1", 1, fauna.Hediff{Label: "scar", Severity: 0.1, Permanent: true}),
	)

	res := sim.ForceCheck()
	require.Len(t, res.Removals, 1)
	assert.Equal(t, "h2", res.Removals[0].Individual.ID)
}

func TestSimulation_ZeroLimitDrainsMap(t *testing.T) {
	sim := newTestSim(t, 0, creature("x", "Boar", "m2", 2))

	sim.Tick(1)
	assert.False(t, sim.CreatureIndex["x"].Spawned)
	assert.True(t, sim.Capper.State().LastRemovalOccurred)

	sim.Tick(3)
	assert.False(t, sim.Capper.State().LastRemovalOccurred)
	assert.Equal(t, uint64(3+testDay), sim.Capper.State().NextCheckTick)
}

func TestSimulation_LimitReadAtEachCheck(t *testing.T) {
	sim := newTestSim(t, 10,
		creature("a", "Deer", "m1", 1),
		creature("b", "Deer", "m1", 2),
	)
	sim.Tick(1)
	assert.False(t, sim.Capper.State().LastRemovalOccurred)

	sim.Settings.SetMaxWildAnimals(1)
	res := sim.ForceCheck()
	require.Len(t, res.Removals, 1)
	assert.Equal(t, "b", res.Removals[0].Individual.ID)
}

func TestSimulation_DayCompactsAndCounts(t *testing.T) {
	sim := newTestSim(t, 1,
		creature("a", "Deer", "m1", 1),
		creature("b", "Deer", "m1", 2),
	)
	sim.Tick(1)
	sim.TickDay(testDay)

	assert.NotContains(t, sim.CreatureIndex, "b")
	assert.Len(t, sim.Creatures, 1)
	assert.Len(t, sim.MapCreatures["m1"], 1)

	status := sim.Status()
	assert.Equal(t, 1, status.Stats.TotalCreatures)
	assert.Equal(t, 1, status.Stats.WildCreatures)
	assert.Equal(t, 1, status.Stats.Removals)
	assert.Equal(t, 1, status.MaxWildAnimals)

	events := sim.RecentEvents(10)
	require.NotEmpty(t, events)
	assert.Equal(t, "removal", events[0].Category)
}

func TestSimulation_DeathsFromWoundsAndAge(t *testing.T) {
	sim := newTestSim(t, 100,
		creature("dying", "Deer", "m1", 1, fauna.Hediff{Label: "mauled", Severity: 1}),
		creature("ancient", "Hare", "m1", 80),
		creature("young", "Hare", "m1", 1),
	)
	sim.Dynamics.OldAgeMortality = 1

	sim.TickDay(testDay)
	assert.NotContains(t, sim.CreatureIndex, "dying")
	assert.NotContains(t, sim.CreatureIndex, "ancient")
	assert.Contains(t, sim.CreatureIndex, "young")
	assert.Equal(t, 2, sim.Stats.Deaths)
}

func TestSimulation_MapSummariesAndRanking(t *testing.T) {
	sim := newTestSim(t, 1,
		creature("d1", "Deer", "m1", 1),
		creature("d2", "Deer", "m1", 12),
		creature("b1", "Boar", "m1", 1),
	)

	sums := sim.MapSummaries()
	require.Len(t, sums, 2)
	assert.Equal(t, 3, sums[0].Wild)
	assert.Equal(t, 2, sums[0].Species["Deer"])
	assert.True(t, sums[0].OverLimit)
	assert.False(t, sums[1].OverLimit)

	ranked, ok := sim.Ranking("m1", 2)
	require.True(t, ok)
	require.Len(t, ranked, 2)
	assert.Equal(t, "d2", ranked[0].ID)
	assert.Equal(t, "d1", ranked[1].ID)

	_, ok = sim.Ranking("nowhere", 0)
	assert.False(t, ok)
}

func TestSimulation_SnapshotIsDeepCopy(t *testing.T) {
	sim := newTestSim(t, 100, creature("a", "Deer", "m1", 1, fauna.Hediff{Label: "bite", Severity: 0.1}))
	sim.Restore(500, capper.State{NextCheckTick: 777})

	snap := sim.Snapshot()
	assert.Equal(t, uint64(500), snap.Tick)
	assert.Equal(t, uint64(777), snap.Capper.NextCheckTick)
	require.Len(t, snap.Creatures, 1)
	require.Len(t, snap.Maps, 2)

	snap.Creatures[0].Hediffs[0].Severity = 0.9
	assert.Equal(t, 0.1, sim.CreatureIndex["a"].Hediffs[0].Severity)
}

func TestSimulation_EngineConvergesToLimit(t *testing.T) {
	maps := world.Generate(world.GenConfig{Maps: 3, PlanetRadius: 20, MinSpacing: 3, Seed: 11})
	catalog := fauna.DefaultCatalog()
	spawner := fauna.NewSpawner(11, catalog, testDay)
	var creatures []*fauna.Creature
	for _, m := range maps {
		creatures = append(creatures, spawner.InitialPopulation(m, 0)...)
	}

	sim := NewSimulation(maps, creatures, catalog, spawner, settings.New(20), Options{
		Seed:     11,
		DayTicks: testDay,
		Dynamics: quiet,
	})
	eng := NewEngine(testDay)
	eng.OnTick = sim.Tick
	eng.OnHour = sim.TickHour
	eng.OnDay = sim.TickDay

	eng.Advance(4 * testDay)

	for _, sum := range sim.MapSummaries() {
		assert.LessOrEqual(t, sum.Wild, 20, sum.Name)
	}
	assert.False(t, sim.Capper.State().LastRemovalOccurred)
}

func TestSimulation_RequeueRemovalsKeepsOrder(t *testing.T) {
	sim := newTestSim(t, 0,
		creature("a", "Deer", "m1", 1),
		creature("b", "Boar", "m2", 1),
	)
	sim.Tick(1)
	failed := sim.DrainRemovals()
	require.Len(t, failed, 2)

	sim.addCreature(creature("c", "Deer", "m1", 1))
	sim.ForceCheck()

	sim.RequeueRemovals(failed)
	sim.RequeueRemovals(nil)
	pending := sim.PendingRemovals()
	require.Len(t, pending, 3)
	assert.Equal(t, "c", pending[0].CreatureID, "newest first")

	drained := sim.DrainRemovals()
	require.Len(t, drained, 3)
	assert.Equal(t, failed, drained[:2], "requeued records keep their place ahead of newer ones")
	assert.Equal(t, "c", drained[2].CreatureID)
	assert.Empty(t, sim.DrainRemovals())
}

func TestSimulation_RestoreRemovalCount(t *testing.T) {
	sim := newTestSim(t, 0, creature("a", "Deer", "m1", 1))
	sim.RestoreRemovalCount(41)
	sim.Tick(1)
	assert.Equal(t, 42, sim.Status().Stats.Removals)
}
