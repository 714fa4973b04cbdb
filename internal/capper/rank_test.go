package capper

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:generate mockgen -destination mock_capper_test.go -package capper -write_package_comment=false github.com/talgya/wildlife-control/internal/capper Remover,ZoneSource

func ind(id, species string, health float64, injured bool, ratio float64) Individual {
	return Individual{
		ID:                 id,
		Species:            species,
		HealthFraction:     health,
		HasPermanentInjury: injured,
		BiologicalAge:      ratio,
		ExpectedLifespan:   1,
	}
}

func ids(list []Individual) []string {
	out := make([]string, len(list))
	for i, x := range list {
		out[i] = x.ID
	}
	return out
}

func TestAgeRatio(t *testing.T) {
	assert.Equal(t, 0.5, Individual{BiologicalAge: 5, ExpectedLifespan: 10}.AgeRatio())
	assert.Equal(t, 0.0, Individual{BiologicalAge: 5}.AgeRatio())
	assert.Equal(t, 0.0, Individual{ExpectedLifespan: 10}.AgeRatio())
	assert.Equal(t, 1.5, Individual{BiologicalAge: 15, ExpectedLifespan: 10}.AgeRatio())
}

func TestRank_LargestSpeciesFirst(t *testing.T) {
	pop := []Individual{
		ind("a1", "alpaca", 1, false, 0.5),
		ind("b1", "boar", 0.4, false, 0.1),
		ind("a2", "alpaca", 1, false, 0.6),
		ind("b2", "boar", 1, false, 0.2),
		ind("a3", "alpaca", 1, false, 0.7),
	}

	got, ok := SelectForRemoval(pop)
	require.True(t, ok)
	assert.Equal(t, "a3", got.ID)

	ranked := Rank(pop)
	assert.Equal(t, []string{"a3", "a2", "a1", "b1", "b2"}, ids(ranked))
}

func TestRank_PermanentInjuryBeatsAge(t *testing.T) {
	pop := []Individual{
		ind("d1", "deer", 1, false, 0.3),
		ind("d2", "deer", 1, false, 0.4),
		ind("d3", "deer", 1, true, 0.1),
		ind("d4", "deer", 1, false, 0.2),
		ind("d5", "deer", 1, false, 0.35),
	}

	got, ok := SelectForRemoval(pop)
	require.True(t, ok)
	assert.Equal(t, "d3", got.ID)
}

func TestRank_UnhealthyBeatsInjured(t *testing.T) {
	pop := []Individual{
		ind("w1", "wolf", 1, true, 0.9),
		ind("w2", "wolf", 0.99, false, 0.1),
	}
	got, _ := SelectForRemoval(pop)
	assert.Equal(t, "w2", got.ID)
}

func TestRank_EqualGroupsKeepFirstAppearance(t *testing.T) {
	pop := []Individual{
		ind("h1", "hare", 1, false, 0.1),
		ind("f1", "fox", 0.2, true, 0.9),
		ind("h2", "hare", 1, false, 0.2),
		ind("f2", "fox", 1, false, 0.1),
	}

	ranked := Rank(pop)
	assert.Equal(t, []string{"h2", "h1", "f1", "f2"}, ids(ranked))
}

func TestRank_FullTiesKeepInputOrder(t *testing.T) {
	pop := []Individual{
		ind("x1", "rat", 1, false, 0.5),
		ind("x2", "rat", 1, false, 0.5),
		ind("x3", "rat", 1, false, 0.5),
	}
	assert.Equal(t, []string{"x1", "x2", "x3"}, ids(Rank(pop)))

	got, _ := SelectForRemoval(pop)
	assert.Equal(t, "x1", got.ID)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	pop := []Individual{
		ind("a", "cat", 1, false, 0.1),
		ind("b", "cat", 0.5, false, 0.1),
	}
	_ = Rank(pop)
	assert.Equal(t, []string{"a", "b"}, ids(pop))
}

func TestSelectForRemoval_Empty(t *testing.T) {
	_, ok := SelectForRemoval(nil)
	assert.False(t, ok)
	assert.Empty(t, Rank(nil))
}

// The scan in SelectForRemoval must always agree with the head of Rank, and
// shuffling the input must never change the ranking key of the chosen one.
func TestSelectForRemoval_AgreesWithRankUnderShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	species := []string{"elk", "ibex", "muffalo"}

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(12)
		pop := make([]Individual, n)
		for i := range pop {
			health := 1.0
			if rng.Intn(3) == 0 {
				health = 0.5
			}
			pop[i] = ind(
				string(rune('A'+i)),
				species[rng.Intn(len(species))],
				health,
				rng.Intn(4) == 0,
				float64(rng.Intn(4))/4,
			)
		}

		ranked := Rank(pop)
		got, ok := SelectForRemoval(pop)
		require.True(t, ok)
		require.Equal(t, ranked[0].ID, got.ID)

		shuffled := append([]Individual(nil), pop...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		other, _ := SelectForRemoval(shuffled)

		// Equal-size groups are ordered by first appearance, which a
		// shuffle is allowed to change.
		if !uniqueLargestSpecies(pop) {
			continue
		}
		assert.Equal(t, got.Species, other.Species)
		assert.Equal(t, got.Unhealthy(), other.Unhealthy())
		assert.Equal(t, got.HasPermanentInjury, other.HasPermanentInjury)
		assert.Equal(t, got.AgeRatio(), other.AgeRatio())
	}
}

func uniqueLargestSpecies(pop []Individual) bool {
	counts := make(map[string]int)
	for _, x := range pop {
		counts[x.Species]++
	}
	best, tied := 0, false
	for _, c := range counts {
		switch {
		case c > best:
			best, tied = c, false
		case c == best:
			tied = true
		}
	}
	return !tied
}
