// Package reaction implements the reaction-network engine (§4.3): rule
// definitions, lazily constructed reaction classes keyed by reactant
// species, and the reactant-class pool that the diffusion step consults
// on every molecule-molecule encounter.
package reaction

import "github.com/mcellsim/mcell/species"

// Orientation constrains where a surface-bound reactant or product sits
// relative to its containing surface, mirroring the three-valued
// orientation used throughout the geometry and diffusion packages.
type Orientation int

const (
	OrientNone Orientation = iota // volume molecule, or "don't care"
	OrientUp                      // outward-facing (+)
	OrientDown                    // inward-facing (-)
)

// ReactantSlot is one named position in a rule's reactant or product list:
// a pattern graph plus the compartment/orientation tag it must carry.
type ReactantSlot struct {
	Pattern     species.Graph
	Compartment string // "" means unconstrained
	Orientation Orientation
}

// Rule is one parsed reaction rule. Reactant and product slots are
// authoritative and separately indexed — a rule is not required to
// conserve the identity of species between its reactant and product
// lists (§9 design note: "reactant/product slots are independently
// authoritative, not mirrored views of one list").
type Rule struct {
	Name       string
	Reactants  []ReactantSlot
	Products   []ReactantSlot
	RateFwd    float64
	RateBack   float64 // 0 if irreversible
	Reversible bool
}

// IsUnimolecular reports whether the rule has exactly one reactant slot.
func (r Rule) IsUnimolecular() bool { return len(r.Reactants) == 1 }

// IsBimolecular reports whether the rule has exactly two reactant slots.
func (r Rule) IsBimolecular() bool { return len(r.Reactants) == 2 }
