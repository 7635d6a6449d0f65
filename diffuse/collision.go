package diffuse

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/partition"
)

// CandidateKind distinguishes what a diffusion ray struck.
type CandidateKind int

const (
	KindWall CandidateKind = iota
	KindMolecule
)

// Candidate is one potential obstruction found while ray-tracing a
// molecule's sampled displacement through its neighbouring sub-partitions.
type Candidate struct {
	T       float64 // parametric distance along the displacement, in [0,1]
	Kind    CandidateKind
	Wall    geom.WallId
	Other   partition.MoleculeID
	Grazing bool // within the tie-break epsilon of another candidate's T
}

// tieBreakEpsilon is the parametric-distance window within which two
// candidates are considered simultaneous, resolved by the wall-before-
// molecule rule rather than float ordering (§4.6.3).
const tieBreakEpsilon = 1e-9

// SortCandidates orders candidates by increasing T; candidates within
// tieBreakEpsilon of each other are additionally ordered wall-before-
// molecule, and marked Grazing so the caller can log or perturb them.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if diff := a.T - b.T; diff < -tieBreakEpsilon || diff > tieBreakEpsilon {
			return a.T < b.T
		}
		if a.Kind != b.Kind {
			return a.Kind == KindWall
		}
		return false
	})
	for i := 1; i < len(cands); i++ {
		if cands[i].T-cands[i-1].T <= tieBreakEpsilon {
			cands[i].Grazing = true
			cands[i-1].Grazing = true
		}
	}
}

// RayTraceWalls intersects the segment [origin, origin+disp] against
// every wall resident in origin's sub-partition and its immediate
// neighbours (Chebyshev radius 1), returning one Candidate per hit with t
// in [0,1]. Walls registered only in cells farther from origin are not
// tested.
func RayTraceWalls(store *geom.Store, grid *partition.Grid, origin, disp mgl64.Vec3) []Candidate {
	cx, cy, cz := grid.CellOf(origin)
	seen := make(map[geom.WallId]bool)
	var out []Candidate

	for _, cell := range grid.NeighbourCells(cx, cy, cz) {
		sp := grid.SubPartitionAt(cell[0], cell[1], cell[2])
		for _, wid := range sp.Walls {
			wallID := geom.WallId(wid)
			if seen[wallID] {
				continue
			}
			seen[wallID] = true
			w := store.Wall(wallID)
			if w == nil {
				continue
			}
			t, hit := rayTriangleParam(origin, disp, store.Vertex(w.V0), store.Vertex(w.V1), store.Vertex(w.V2))
			if hit && t >= 0 && t <= 1 {
				out = append(out, Candidate{T: t, Kind: KindWall, Wall: wallID})
			}
		}
	}
	return out
}

// rayTriangleParam is the Möller-Trumbore ray-triangle test, scaled so t
// is parametric along disp (a finite segment) rather than an arbitrary
// ray direction.
func rayTriangleParam(origin, disp, v0, v1, v2 mgl64.Vec3) (float64, bool) {
	const epsilon = 1e-9
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := disp.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}
	f := 1.0 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * disp.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * edge2.Dot(q)
	return t, true
}

// RayTraceMolecules finds every live molecule within interactionRadius of
// the segment [origin, origin+disp]. Only molecules in the sub-partition
// holding the segment's endpoint and its immediate neighbours are
// considered; for each, the distance is measured from the segment's
// closest point to it.
func RayTraceMolecules(grid *partition.Grid, origin, disp mgl64.Vec3, interactionRadius float64, positionOf func(partition.MoleculeID) (mgl64.Vec3, bool), self partition.MoleculeID) []Candidate {
	cx, cy, cz := grid.CellOf(origin.Add(disp))
	seen := make(map[partition.MoleculeID]bool)
	var out []Candidate

	for _, cell := range grid.NeighbourCells(cx, cy, cz) {
		sp := grid.SubPartitionAt(cell[0], cell[1], cell[2])
		for _, id := range sp.Molecules {
			if id == self || seen[id] {
				continue
			}
			seen[id] = true
			pos, ok := positionOf(id)
			if !ok {
				continue
			}
			t, dist, hit := closestApproach(origin, disp, pos, interactionRadius)
			if hit {
				_ = dist
				out = append(out, Candidate{T: t, Kind: KindMolecule, Other: id})
			}
		}
	}
	return out
}

// closestApproach returns the parametric t in [0,1] along [origin,
// origin+disp] closest to target, and whether the segment comes within
// radius of it.
func closestApproach(origin, disp, target mgl64.Vec3, radius float64) (float64, float64, bool) {
	toTarget := target.Sub(origin)
	lenSq := disp.Dot(disp)
	t := 0.0
	if lenSq > 1e-18 {
		t = toTarget.Dot(disp) / lenSq
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := origin.Add(disp.Mul(t))
	dist := closest.Sub(target).Len()
	return t, dist, dist <= radius
}
