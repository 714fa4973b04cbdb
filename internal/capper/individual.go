// Package capper keeps the wild population of each zone under a configured
// maximum by removing one least-fit individual per over-limit zone per check.
// The host supplies zone membership, an eligibility predicate and a removal
// capability; the package owns only the ranking and the adaptive cadence.
package capper

// Individual is the host-independent view of one trackable creature.
type Individual struct {
	ID                 string  `json:"id"`
	Species            string  `json:"species"`
	HealthFraction     float64 `json:"health_fraction"` // 0.0–1.0, 1.0 = fully healthy
	HasPermanentInjury bool    `json:"has_permanent_injury"`
	BiologicalAge      float64 `json:"biological_age"`    // Same unit as ExpectedLifespan
	ExpectedLifespan   float64 `json:"expected_lifespan"` // Same unit as BiologicalAge
}

// Unhealthy reports whether the individual is below full health.
func (i Individual) Unhealthy() bool {
	return i.HealthFraction < 1.0
}

// AgeRatio returns biological age relative to expected lifespan.
// A non-positive lifespan yields 0.
func (i Individual) AgeRatio() float64 {
	if i.ExpectedLifespan <= 0 || i.BiologicalAge <= 0 {
		return 0
	}
	return i.BiologicalAge / i.ExpectedLifespan
}

// Zone is an independent population container (a map).
type Zone struct {
	ID          string
	Individuals []Individual
}

// EligibilityPredicate decides whether an individual counts toward the cap
// and may be removed (the host's "wild" test).
type EligibilityPredicate func(Individual) bool

// Everyone treats every individual as eligible.
func Everyone(Individual) bool { return true }

// Remover performs the host-side removal of an individual from a zone.
// Errors are reported back for logging only; the capper never retries.
type Remover interface {
	Remove(zone Zone, ind Individual) error
}

// ZoneSource produces the current zones, each with its live individuals.
type ZoneSource interface {
	Zones() []Zone
}

// LimitSource yields the configured maximum population, read at each check.
type LimitSource interface {
	MaxPopulation() int
}

// LimitFunc adapts a function to the LimitSource interface.
type LimitFunc func() int

// MaxPopulation calls f().
func (f LimitFunc) MaxPopulation() int {
	return f()
}
