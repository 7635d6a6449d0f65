package species

// MatchesFully reports whether pattern and target describe the same
// complex up to graph isomorphism — every molecule and bond in target is
// accounted for, in either order (§4.2.2, "fully matches"). Orientation is
// never considered here; that is a property of the containing species
// record, not the graph.
func MatchesFully(pattern, target Graph) bool {
	if len(pattern.Molecules) != len(target.Molecules) {
		return false
	}
	return CanonicalString(pattern) == CanonicalString(target)
}

// CountMatches returns every injective mapping from pattern molecule index
// to target molecule index realizing an embedding of pattern into target
// (subgraph isomorphism, §4.2.2, "partially matches"). A nil (empty)
// result means the pattern does not match at all.
//
// Mappings are found by backtracking search with component-colour
// compatibility pruning, plus a final whole-mapping bond check
// (bondsConsistent): components are matched molecule-by-molecule first
// (arity only), and once a candidate mapping assigns every pattern
// molecule, every specifically-numbered bond is verified to land on the
// exact target component its pattern counterpart requires — not just a
// component with some bond. Reaction-rule patterns are small enough (a
// handful of molecules) that this is fast in practice; no attempt is made
// to scale to arbitrary pattern sizes.
func CountMatches(pattern, target Graph) [][]int {
	n := len(pattern.Molecules)
	used := make([]bool, len(target.Molecules))
	mapping := make([]int, n)
	compMap := make(map[BondEndpoint]BondEndpoint)
	var out [][]int

	var search func(pi int)
	search = func(pi int) {
		if pi == n {
			if bondsConsistent(pattern, target, compMap) {
				out = append(out, append([]int(nil), mapping...))
			}
			return
		}
		for ti := range target.Molecules {
			if used[ti] {
				continue
			}
			localMap, ok := moleculeCompatible(pattern, pi, target, ti)
			if !ok {
				continue
			}
			used[ti] = true
			mapping[pi] = ti
			for pci, tci := range localMap {
				compMap[BondEndpoint{pi, pci}] = BondEndpoint{ti, tci}
			}
			search(pi + 1)
			for pci := range localMap {
				delete(compMap, BondEndpoint{pi, pci})
			}
			used[ti] = false
		}
	}
	search(0)
	return out
}

// MatchesPattern reports whether pattern embeds into target at least once.
func MatchesPattern(pattern, target Graph) bool {
	return len(CountMatches(pattern, target)) > 0
}

// moleculeCompatible reports whether pattern molecule pi can map to target
// molecule ti, on component arity/state/type alone (bond partner identity
// is checked later, once the whole mapping exists, by bondsConsistent). On
// success it also returns the per-component correspondence it found:
// pattern component index (within pi) to target component index (within
// ti).
func moleculeCompatible(pattern Graph, pi int, target Graph, ti int) (map[int]int, bool) {
	pm := pattern.Molecules[pi]
	tm := target.Molecules[ti]
	if pm.TypeName != tm.TypeName {
		return nil, false
	}
	// Every pattern component must find a distinct, compatible target
	// component (components are otherwise unordered within a molecule).
	claimed := make([]bool, len(tm.Components))
	localMap := make(map[int]int, len(pm.Components))
	for pci, pc := range pm.Components {
		found := false
		for tci, tc := range tm.Components {
			if claimed[tci] {
				continue
			}
			if !componentCompatible(pc, tc) {
				continue
			}
			claimed[tci] = true
			localMap[pci] = tci
			found = true
			break
		}
		if !found {
			return nil, false
		}
	}
	return localMap, true
}

// componentCompatible reports whether pattern component pc matches target
// component tc on type, state, and bond arity: BondNone requires an
// explicitly unbound target component, BondAny requires any bond, and a
// specific pattern bond number requires only that the target component is
// bonded to something — which exact partner is required is verified
// separately, once a complete mapping exists, by bondsConsistent.
func componentCompatible(pc, tc Component) bool {
	if pc.TypeName != tc.TypeName {
		return false
	}
	if pc.HasState && (!tc.HasState || pc.State != tc.State) {
		return false
	}
	switch {
	case pc.Bond == BondNone:
		return tc.Bond == BondNone
	default:
		return tc.Bond > BondNone
	}
}

// bondsConsistent reports whether, under the now-complete component
// mapping compMap, every specifically-numbered pattern bond's partner
// resolves to the exact target component that the target's own bond
// structure requires. This is what makes CountMatches a true subgraph
// isomorphism test rather than a per-component arity check: a pattern
// like "X(p!1).Z(n!1)" must fail against a target where X's bonded
// component is actually wired to some other molecule Y, even though X and
// Z both individually carry a bonded component.
func bondsConsistent(pattern, target Graph, compMap map[BondEndpoint]BondEndpoint) bool {
	for pi, pm := range pattern.Molecules {
		for pci, pc := range pm.Components {
			if pc.Bond <= BondNone {
				continue
			}
			pp, ok := pattern.PartnerOf(pi, pci)
			if !ok {
				return false
			}
			self, ok := compMap[BondEndpoint{pi, pci}]
			if !ok {
				return false
			}
			wantPartner, ok := compMap[pp]
			if !ok {
				return false
			}
			gotPartner, ok := target.PartnerOf(self.Mol, self.Comp)
			if !ok || gotPartner != wantPartner {
				return false
			}
		}
	}
	return true
}
