package capper

import (
	"log/slog"
)

// Removal describes one removal issued during a check.
type Removal struct {
	ZoneID        string     `json:"zone_id"`
	Individual    Individual `json:"individual"`
	EligibleCount int        `json:"eligible_count"`
	MaxPopulation int        `json:"max_population"`
	Err           error      `json:"-"`
}

// Result summarizes one CheckLimit invocation.
type Result struct {
	ZonesChecked int       `json:"zones_checked"`
	Removals     []Removal `json:"removals"`
}

// RemovalOccurred reports whether any zone issued a removal.
func (r Result) RemovalOccurred() bool {
	return len(r.Removals) > 0
}

// CheckLimit removes at most one individual from every zone whose eligible
// count exceeds maxPopulation. A negative maxPopulation is treated as 0.
// A nil eligible predicate means every individual is eligible.
func CheckLimit(zones []Zone, maxPopulation int, eligible EligibilityPredicate, remover Remover) Result {
	return checkLimit(zones, maxPopulation, eligible, remover, slog.Default())
}

func checkLimit(zones []Zone, maxPopulation int, eligible EligibilityPredicate, remover Remover, logger *slog.Logger) Result {
	if maxPopulation < 0 {
		maxPopulation = 0
	}
	if eligible == nil {
		eligible = Everyone
	}

	res := Result{ZonesChecked: len(zones)}
	for _, zone := range zones {
		var pool []Individual
		for _, ind := range zone.Individuals {
			if eligible(ind) {
				pool = append(pool, ind)
			}
		}

		if len(pool) <= maxPopulation {
			continue
		}

		victim, _ := SelectForRemoval(pool)
		removal := Removal{
			ZoneID:        zone.ID,
			Individual:    victim,
			EligibleCount: len(pool),
			MaxPopulation: maxPopulation,
		}
		if remover != nil {
			removal.Err = remover.Remove(zone, victim)
		}
		if removal.Err != nil {
			logger.Warn("removal request failed",
				"zone", zone.ID,
				"id", victim.ID,
				"species", victim.Species,
				"error", removal.Err,
			)
		} else {
			logger.Debug("wild individual removed",
				"zone", zone.ID,
				"id", victim.ID,
				"species", victim.Species,
				"health", victim.HealthFraction,
				"permanent_injury", victim.HasPermanentInjury,
				"age_ratio", victim.AgeRatio(),
				"eligible", len(pool),
				"max", maxPopulation,
			)
		}
		res.Removals = append(res.Removals, removal)
	}
	return res
}
