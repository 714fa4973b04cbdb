package engine

import (
	"fmt"

	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/fauna"
)

// capperHost adapts the simulation to the capper's host contract. Its
// methods run inside Tick or ForceCheck, with the simulation lock held.
type capperHost struct {
	sim *Simulation
}

// Zones returns one zone per map holding every spawned creature in spawn order.
func (h capperHost) Zones() []capper.Zone {
	s := h.sim
	zones := make([]capper.Zone, 0, len(s.Maps))
	for _, m := range s.Maps {
		list := s.MapCreatures[m.ID]
		zone := capper.Zone{ID: m.ID, Individuals: make([]capper.Individual, 0, len(list))}
		for _, c := range list {
			if !c.Spawned {
				continue
			}
			sp, _ := s.Catalog.Lookup(c.Def)
			zone.Individuals = append(zone.Individuals, fauna.Individual(c, sp, s.DayTicks))
		}
		zones = append(zones, zone)
	}
	return zones
}

func (h capperHost) eligible(ind capper.Individual) bool {
	c, ok := h.sim.CreatureIndex[ind.ID]
	return ok && h.sim.isWild(c)
}

// Remove destroys the creature on its map.
func (h capperHost) Remove(zone capper.Zone, ind capper.Individual) error {
	c, ok := h.sim.CreatureIndex[ind.ID]
	if !ok {
		return fmt.Errorf("creature %s not found", ind.ID)
	}
	if !c.Spawned {
		return fmt.Errorf("creature %s already despawned", ind.ID)
	}
	if c.MapID != zone.ID {
		return fmt.Errorf("creature %s is on %s, not %s", ind.ID, c.MapID, zone.ID)
	}
	c.Destroy()
	return nil
}
