package reaction

// ruleBitset is a fixed-width bitset over rule indices. 64 rules is far
// beyond what any realistic model defines per reactant slot; a model
// exceeding that would need a slice-backed bitset, which is not
// implemented here since nothing in the corpus this engine was grounded
// on needs it.
type ruleBitset uint64

func (b ruleBitset) has(i int) bool { return b&(1<<uint(i)) != 0 }
func (b *ruleBitset) set(i int)     { *b |= 1 << uint(i) }

// ReactantClass groups every species that matches an identical set of
// rules in slot 0 and an identical set of rules in slot 1, so that the
// pool holds one shared record per distinct matching profile rather than
// one per species (§9 design note on the reactant-class pool).
//
// TargetOnly marks a species that never initiates a bimolecular encounter
// (it matches no rule in slot 0) but can still be hit — e.g. an immobile
// receptor. The flag is recorded on the class only; neither the reaction
// engine nor the diffusion step reads it.
type ReactantClass struct {
	ID         int
	TargetOnly bool
	Bitset0    ruleBitset
	Bitset1    ruleBitset
}

// Pool deduplicates ReactantClass records and tracks, for every rule
// index, which classes reference it — an inverse index keyed by rule
// index, not by class id. Nothing in the reaction engine evicts cache
// entries through it; Engine.Reset and Engine.EvictSpecies work without it.
type Pool struct {
	classes   []*ReactantClass
	byProfile map[[2]ruleBitset]int // (bitset0, bitset1) -> index into classes

	// reacting, indexed by rule index, lists every class id whose
	// bitset0 or bitset1 bit for that rule is set.
	reacting map[int][]int
}

// NewPool returns an empty reactant-class pool.
func NewPool() *Pool {
	return &Pool{byProfile: make(map[[2]ruleBitset]int), reacting: make(map[int][]int)}
}

// Intern returns the ReactantClass matching the given bitsets, creating
// one if this exact profile hasn't been seen.
func (p *Pool) Intern(bitset0, bitset1 ruleBitset, targetOnly bool) *ReactantClass {
	key := [2]ruleBitset{bitset0, bitset1}
	if idx, ok := p.byProfile[key]; ok {
		return p.classes[idx]
	}
	rc := &ReactantClass{ID: len(p.classes), TargetOnly: targetOnly, Bitset0: bitset0, Bitset1: bitset1}
	idx := len(p.classes)
	p.classes = append(p.classes, rc)
	p.byProfile[key] = idx

	for i := 0; i < 64; i++ {
		if bitset0.has(i) || bitset1.has(i) {
			p.reacting[i] = append(p.reacting[i], rc.ID)
		}
	}
	return rc
}

// ClassesReactingOnRule returns the ids of every ReactantClass whose
// slot-0 or slot-1 bitset has rule i set.
func (p *Pool) ClassesReactingOnRule(i int) []int {
	return p.reacting[i]
}

// Count returns the number of distinct reactant-class profiles interned.
func (p *Pool) Count() int { return len(p.classes) }
