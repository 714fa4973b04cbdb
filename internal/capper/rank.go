package capper

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// speciesOrder assigns each species its group position: larger groups first,
// equal-size groups in order of first appearance.
func speciesOrder(eligible []Individual) map[string]int {
	counts := make(map[string]int)
	var species []string
	for _, ind := range eligible {
		if counts[ind.Species] == 0 {
			species = append(species, ind.Species)
		}
		counts[ind.Species]++
	}

	slices.SortStableFunc(species, func(a, b string) int {
		return cmp.Compare(counts[b], counts[a])
	})

	order := make(map[string]int, len(species))
	for i, sp := range species {
		order[sp] = i
	}
	return order
}

// compareRemoval orders a before b when a is the better removal candidate.
// Returns 0 when all keys tie; callers rely on stable ordering for those.
func compareRemoval(order map[string]int, a, b Individual) int {
	if c := cmp.Compare(order[a.Species], order[b.Species]); c != 0 {
		return c
	}
	if a.Unhealthy() != b.Unhealthy() {
		if a.Unhealthy() {
			return -1
		}
		return 1
	}
	if a.HasPermanentInjury != b.HasPermanentInjury {
		if a.HasPermanentInjury {
			return -1
		}
		return 1
	}
	return cmp.Compare(b.AgeRatio(), a.AgeRatio())
}

// Rank returns the eligible individuals in removal order. The input slice is
// not modified. Keys, highest priority first: species group size (desc),
// unhealthy first, permanently injured first, age ratio (desc). Full ties keep
// input order.
func Rank(eligible []Individual) []Individual {
	ranked := slices.Clone(eligible)
	if len(ranked) < 2 {
		return ranked
	}
	order := speciesOrder(ranked)
	slices.SortStableFunc(ranked, func(a, b Individual) int {
		return compareRemoval(order, a, b)
	})
	return ranked
}

// SelectForRemoval returns the first individual Rank would produce, without
// sorting. ok is false for an empty input.
func SelectForRemoval(eligible []Individual) (Individual, bool) {
	if len(eligible) == 0 {
		return Individual{}, false
	}
	order := speciesOrder(eligible)
	best := eligible[0]
	for _, ind := range eligible[1:] {
		if compareRemoval(order, ind, best) < 0 {
			best = ind
		}
	}
	return best, true
}
