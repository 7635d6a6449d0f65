package reaction

import "github.com/mcellsim/mcell/species"

// SurfaceBehavior is what a wall does to a molecule that strikes it and
// is not itself consumed by a more specific surface-class rule: bounce
// back (the MCell default for a wall with no assigned surface class),
// pass through unchanged, or be destroyed on contact.
type SurfaceBehavior int

const (
	SurfaceReflect SurfaceBehavior = iota
	SurfaceTransmit
	SurfaceAbsorb
)

// SurfaceClassRule pairs a reactive species pattern with the behaviour a
// hit invokes for molecules matching it.
type SurfaceClassRule struct {
	Pattern  species.Graph
	Behavior SurfaceBehavior
}

// surfaceClassEntry is one named surface class's compiled rule list plus
// the behaviour applied to species none of its rules name.
type surfaceClassEntry struct {
	rules   []SurfaceClassRule
	deflt   SurfaceBehavior
}

// SurfaceClassTable holds every surface class a model defines, keyed by
// name, looked up by the diffusion step during wall-hit resolution
// (§4.6 step 4, "look up surface-class reactions on the wall's regions").
type SurfaceClassTable struct {
	classes map[string]surfaceClassEntry
}

// NewSurfaceClassTable returns an empty table; BehaviorFor on an unknown
// class name always reflects, matching a wall whose region carries no
// surface class at all.
func NewSurfaceClassTable() *SurfaceClassTable {
	return &SurfaceClassTable{classes: make(map[string]surfaceClassEntry)}
}

// Register defines or replaces the named surface class's rule set.
func (t *SurfaceClassTable) Register(name string, rules []SurfaceClassRule, deflt SurfaceBehavior) {
	t.classes[name] = surfaceClassEntry{rules: rules, deflt: deflt}
}

// BehaviorFor reports the behaviour the named surface class applies to a
// molecule whose canonical species graph is canonical: the first rule
// whose pattern matches wins, falling back to the class's default, or to
// SurfaceReflect if name was never registered.
func (t *SurfaceClassTable) BehaviorFor(name string, canonical species.Graph) SurfaceBehavior {
	entry, ok := t.classes[name]
	if !ok {
		return SurfaceReflect
	}
	for _, r := range entry.rules {
		if species.MatchesPattern(r.Pattern, canonical) {
			return r.Behavior
		}
	}
	return entry.deflt
}
