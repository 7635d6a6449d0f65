package reaction

import "github.com/mcellsim/mcell/species"

// Pathway is one rule contributing to a reaction class, together with the
// rate actually usable for Monte Carlo selection at this class's specific
// reactant combination (after any per-species rate scaling has already
// been folded in by the caller).
type Pathway struct {
	Rule *Rule
	Rate float64
}

// Class is the lazily constructed, per-reactant-combination reaction
// class: every rule whose reactant pattern(s) match this species (or
// species pair), with the total rate precomputed; Select walks the
// pathways linearly, accumulating rates as it goes (§4.3.2).
//
// A Class is never exposed empty — if no rule matches a given reactant
// combination, Engine.Unimolecular/Bimolecular return (nil, false)
// instead of an empty *Class, so callers never need a "Pathways is empty"
// check on the hot path.
type Class struct {
	Reactants []species.ID
	Pathways  []Pathway
	Total     float64
}

// Select returns the pathway chosen by draw, a uniform value expected to
// fall in [0, c.Total). It is the caller's responsibility to reject the
// encounter entirely when draw falls outside [0, c.Total) — e.g. a
// diffusion step that also weighs a "no reaction" outcome samples from a
// wider range and only calls Select when the draw lands inside it.
func (c *Class) Select(draw float64) (Pathway, bool) {
	if draw < 0 || draw >= c.Total {
		return Pathway{}, false
	}
	acc := 0.0
	for _, p := range c.Pathways {
		acc += p.Rate
		if draw < acc {
			return p, true
		}
	}
	return c.Pathways[len(c.Pathways)-1], true
}
