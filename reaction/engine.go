package reaction

import (
	"sort"

	"github.com/mcellsim/mcell/species"
)

// compartmentKey composes the (possibly per-slot) compartment tags a
// reaction class was built for into one lookup key, "" meaning
// unconstrained.
type compartmentKey string

type uniKey struct {
	sp   species.ID
	comp compartmentKey
}

type biKey struct {
	sp0, sp1 species.ID
	comp     compartmentKey
}

// Engine lazily builds and caches reaction classes per reactant species
// combination (§4.3.3). Rules are evaluated in a fixed, caller-supplied
// order, so repeated runs with the same seed always present the PRNG with
// pathways in the same order — required for reproducibility.
type Engine struct {
	interner *species.Interner
	rules    []Rule

	uni map[uniKey]*Class
	bi  map[biKey]*Class

	// pool deduplicates bimolecular reactant profiles (which rules match
	// each slot) so that species sharing an identical matching profile
	// share one built Class rather than each building their own (§4.3.1).
	pool      *Pool
	biByClass map[int]*Class

	// processed remembers which (species, compartment) combinations have
	// already been resolved to "no rule matches" so repeated lookups
	// short-circuit without re-scanning every rule.
	processedUni map[uniKey]bool
	processedBi  map[biKey]bool
}

// NewEngine returns a reaction engine over rules, evaluated in the given
// order, resolving patterns against the species interned in interner.
func NewEngine(interner *species.Interner, rules []Rule) *Engine {
	return &Engine{
		interner:     interner,
		rules:        rules,
		uni:          make(map[uniKey]*Class),
		bi:           make(map[biKey]*Class),
		pool:         NewPool(),
		biByClass:    make(map[int]*Class),
		processedUni: make(map[uniKey]bool),
		processedBi:  make(map[biKey]bool),
	}
}

// Unimolecular returns the reaction class for a single species undergoing
// spontaneous unimolecular events, building it on first request. ok is
// false if no rule applies — no empty *Class is ever returned.
func (e *Engine) Unimolecular(sp species.ID, compartment string) (*Class, bool) {
	key := uniKey{sp, compartmentKey(compartment)}
	if c, ok := e.uni[key]; ok {
		return c, true
	}
	if e.processedUni[key] {
		return nil, false
	}

	rec, ok := e.interner.Lookup(sp)
	if !ok {
		e.processedUni[key] = true
		return nil, false
	}

	var pathways []Pathway
	for i := range e.rules {
		r := &e.rules[i]
		if !r.IsUnimolecular() {
			continue
		}
		slot := r.Reactants[0]
		if slot.Compartment != "" && slot.Compartment != compartment {
			continue
		}
		if !species.MatchesPattern(slot.Pattern, rec.Canonical) {
			continue
		}
		pathways = append(pathways, Pathway{Rule: r, Rate: r.RateFwd})
	}

	e.processedUni[key] = true
	if len(pathways) == 0 {
		return nil, false
	}
	sortPathwaysStable(pathways)
	c := &Class{Reactants: []species.ID{sp}, Pathways: pathways, Total: totalRate(pathways)}
	e.uni[key] = c
	return c, true
}

// Bimolecular returns the reaction class for an ordered species pair
// (sp0, sp1), building it on first request. Construction goes through
// the reactant-class pool: sp0/sp1's matching-rule bitsets are interned
// into a shared ReactantClass first, and if another species pair already
// built the Class for that exact profile, it is reused verbatim rather
// than rebuilt (§4.3.1).
func (e *Engine) Bimolecular(sp0, sp1 species.ID, compartment string) (*Class, bool) {
	key := biKey{sp0, sp1, compartmentKey(compartment)}
	if c, ok := e.bi[key]; ok {
		return c, true
	}
	if e.processedBi[key] {
		return nil, false
	}

	rec0, ok0 := e.interner.Lookup(sp0)
	rec1, ok1 := e.interner.Lookup(sp1)
	if !ok0 || !ok1 {
		e.processedBi[key] = true
		return nil, false
	}

	bitset0, bitset1 := e.bimolecularBitsets(rec0.Canonical, rec1.Canonical, compartment)
	rc := e.pool.Intern(bitset0, bitset1, bitset0 == 0)

	e.processedBi[key] = true
	if c, ok := e.biByClass[rc.ID]; ok {
		if c == nil {
			return nil, false
		}
		e.bi[key] = c
		return c, true
	}

	var pathways []Pathway
	for i := range e.rules {
		if rc.Bitset0.has(i) && rc.Bitset1.has(i) {
			pathways = append(pathways, Pathway{Rule: &e.rules[i], Rate: e.rules[i].RateFwd})
		}
	}

	if len(pathways) == 0 {
		e.biByClass[rc.ID] = nil
		return nil, false
	}
	sortPathwaysStable(pathways)
	c := &Class{Reactants: []species.ID{sp0, sp1}, Pathways: pathways, Total: totalRate(pathways)}
	e.biByClass[rc.ID] = c
	e.bi[key] = c
	return c, true
}

// bimolecularBitsets computes, for every bimolecular rule, whether g0
// matches its slot-0 pattern (under compartment) and whether g1 matches
// its slot-1 pattern, as two parallel bitsets indexed by rule position.
func (e *Engine) bimolecularBitsets(g0, g1 species.Graph, compartment string) (ruleBitset, ruleBitset) {
	var b0, b1 ruleBitset
	for i := range e.rules {
		r := &e.rules[i]
		if !r.IsBimolecular() {
			continue
		}
		a, b := r.Reactants[0], r.Reactants[1]
		if compartmentOK(a.Compartment, compartment) && species.MatchesPattern(a.Pattern, g0) {
			b0.set(i)
		}
		if compartmentOK(b.Compartment, compartment) && species.MatchesPattern(b.Pattern, g1) {
			b1.set(i)
		}
	}
	return b0, b1
}

func compartmentOK(slotCompartment, actual string) bool {
	return slotCompartment == "" || slotCompartment == actual
}

func totalRate(pathways []Pathway) float64 {
	var sum float64
	for _, p := range pathways {
		sum += p.Rate
	}
	return sum
}

func sortPathwaysStable(pathways []Pathway) {
	sort.SliceStable(pathways, func(i, j int) bool {
		return pathways[i].Rule.Name < pathways[j].Rule.Name
	})
}

// Reset discards every cached reaction class and processed marker — a
// wholesale cache clear used when the rule set itself changes. The
// reactant-class pool is rebuilt too: its bitsets are positional over the
// rule slice, so a changed rule set invalidates every existing profile.
func (e *Engine) Reset() {
	e.uni = make(map[uniKey]*Class)
	e.bi = make(map[biKey]*Class)
	e.pool = NewPool()
	e.biByClass = make(map[int]*Class)
	e.processedUni = make(map[uniKey]bool)
	e.processedBi = make(map[biKey]bool)
}

// EvictSpecies discards every cached class referencing sp — a partial
// eviction used when a single species is retired (e.g. its last molecule
// was consumed) without invalidating unrelated classes.
func (e *Engine) EvictSpecies(sp species.ID) {
	for k := range e.uni {
		if k.sp == sp {
			delete(e.uni, k)
			delete(e.processedUni, k)
		}
	}
	for k := range e.bi {
		if k.sp0 == sp || k.sp1 == sp {
			delete(e.bi, k)
			delete(e.processedBi, k)
		}
	}
}
