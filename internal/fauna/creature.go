package fauna

import (
	"math/rand"

	"github.com/talgya/wildlife-control/internal/capper"
)

// Hediff is a health condition: an injury, scar or disease.
type Hediff struct {
	Label     string  `json:"label"`
	Severity  float64 `json:"severity"` // Health lost, 0.0–1.0
	Permanent bool    `json:"permanent"`
}

// Creature is one living being on a map.
type Creature struct {
	ID                 string   `json:"id"`
	Def                string   `json:"def"`
	MapID              string   `json:"map_id"`
	FactionID          *uint64  `json:"faction_id,omitempty"` // nil = unowned
	Hediffs            []Hediff `json:"hediffs"`
	AgeBiologicalTicks uint64   `json:"age_biological_ticks"`
	BornTick           uint64   `json:"born_tick"`
	Spawned            bool     `json:"spawned"`
}

// SummaryHealth is 1.0 minus the summed severity of all hediffs, floored at 0.
func (c *Creature) SummaryHealth() float64 {
	h := 1.0
	for _, hd := range c.Hediffs {
		h -= hd.Severity
	}
	if h < 0 {
		return 0
	}
	return h
}

// HasPermanentInjury reports whether any hediff is permanent.
func (c *Creature) HasPermanentInjury() bool {
	for _, hd := range c.Hediffs {
		if hd.Permanent {
			return true
		}
	}
	return false
}

// AgeYears converts biological age to sim-years for the given day length.
func (c *Creature) AgeYears(dayTicks uint64) float64 {
	if dayTicks == 0 {
		return 0
	}
	return float64(c.AgeBiologicalTicks) / float64(dayTicks*DaysPerYear)
}

// Heal reduces non-permanent hediffs by amount and drops the healed ones.
// Permanent hediffs heal down to a lasting residue but never go away.
func (c *Creature) Heal(amount float64) {
	kept := c.Hediffs[:0]
	for _, hd := range c.Hediffs {
		if hd.Permanent {
			hd.Severity = max(hd.Severity-amount, permanentResidue)
			kept = append(kept, hd)
			continue
		}
		hd.Severity -= amount
		if hd.Severity > 0 {
			kept = append(kept, hd)
		}
	}
	c.Hediffs = kept
}

// Destroy despawns the creature. It stays in memory until the next compaction.
func (c *Creature) Destroy() {
	c.Spawned = false
}

const permanentResidue = 0.02

var injuries = []Hediff{
	{Label: "scratch", Severity: 0.08},
	{Label: "bite", Severity: 0.15},
	{Label: "bruise", Severity: 0.05},
	{Label: "frostbite", Severity: 0.12},
	{Label: "scar", Severity: 0.10, Permanent: true},
	{Label: "missing toe", Severity: 0.04, Permanent: true},
	{Label: "bad back", Severity: 0.06, Permanent: true},
}

// RandomInjury draws a hediff; about two in five are permanent.
func RandomInjury(rng *rand.Rand) Hediff {
	return injuries[rng.Intn(len(injuries))]
}

// IsWild is the population limit's eligibility rule: a spawned animal with
// no faction.
func IsWild(c *Creature, sp Species) bool {
	return c.Spawned && sp.Animal && c.FactionID == nil
}

// Individual converts the creature to the capper's host-independent view.
// Age and lifespan are both expressed in sim-years.
func Individual(c *Creature, sp Species, dayTicks uint64) capper.Individual {
	return capper.Individual{
		ID:                 c.ID,
		Species:            c.Def,
		HealthFraction:     c.SummaryHealth(),
		HasPermanentInjury: c.HasPermanentInjury(),
		BiologicalAge:      c.AgeYears(dayTicks),
		ExpectedLifespan:   sp.LifeExpectancy,
	}
}
