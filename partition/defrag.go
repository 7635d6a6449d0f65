package partition

// DefragPeriodicity is the number of diffusion events between automatic
// defragmentation passes (§4.4.2). It is a package-level default rather
// than a Grid field because every Grid in a run shares the same cadence;
// callers that need a different value drive Defragment directly instead
// of going through Tracker.Tick.
const DefragPeriodicity = 10000

// Tracker counts diffusion events and triggers Defragment on the grid it
// wraps once DefragPeriodicity events have elapsed.
type Tracker struct {
	grid        *Grid
	sinceDefrag int
}

// NewTracker returns a Tracker driving periodic defragmentation of grid.
func NewTracker(grid *Grid) *Tracker {
	return &Tracker{grid: grid}
}

// Tick records one diffusion event and defragments the grid if the
// periodicity threshold has been reached, returning whether it did.
func (t *Tracker) Tick(isDefunct func(MoleculeID) bool) bool {
	t.sinceDefrag++
	if t.sinceDefrag < DefragPeriodicity {
		return false
	}
	t.sinceDefrag = 0
	Defragment(t.grid, isDefunct)
	return true
}

// Defragment removes every molecule id for which isDefunct reports true
// from every sub-partition, compacting each sub-partition's molecule
// slice and rebuilding the id->sub-partition index from scratch.
//
// This is the only place a molecule id ever leaves the grid's bookkeeping
// without an explicit Remove call. It drops ids that are defunct but still
// resident; the engine's reaction and absorption paths already call Remove
// on the molecules they consume.
func Defragment(g *Grid, isDefunct func(MoleculeID) bool) {
	g.index = make(map[MoleculeID]int)
	for flat := range g.subparts {
		mols := g.subparts[flat].Molecules
		compacted := mols[:0]
		for _, id := range mols {
			if isDefunct(id) {
				continue
			}
			compacted = append(compacted, id)
			g.index[id] = flat
		}
		g.subparts[flat].Molecules = compacted
	}
}
