// Package partition implements the coarse spatial partition (§4.4): a
// bounding box subdivided into a dense N*N*N grid of sub-partitions, each
// holding the ids of the molecules and walls currently inside it.
//
// MCell's own partitioning deliberately uses a dense array, not a hashed
// grid keyed by cell coordinate (contrast with the teacher's entity
// broadphase, which hashes cell coordinates into a map because its
// entities range over effectively unbounded world space) — the
// simulation volume is fixed at model-build time, so dense indexing gives
// O(1) addressing with no hash collisions and predictable memory layout,
// which the periodic defragmentation pass below depends on.
package partition

import "github.com/go-gl/mathgl/mgl64"

// MoleculeID is an opaque handle into the engine's live molecule table.
type MoleculeID uint32

// WallID is an opaque handle into a geom.Store's wall table.
type WallID int32

// SubPartition holds the molecules and walls currently resident in one
// grid cell. A wall can appear in more than one sub-partition if it
// straddles a cell boundary, hence "multiply indexed".
type SubPartition struct {
	Molecules []MoleculeID
	Walls     []WallID
}

// Grid is the dense N*N*N sub-partition grid covering one bounding box.
type Grid struct {
	Min, Max mgl64.Vec3
	N        int // sub-partitions per axis
	cellSize mgl64.Vec3

	subparts []SubPartition // length N*N*N, row-major (x + N*(y + N*z))

	// index maps a live molecule id to the flat sub-partition index it
	// currently resides in, giving O(1) resolution when the molecule
	// moves or is removed, independent of defragmentation compaction.
	index map[MoleculeID]int
}

// New returns a Grid covering [min, max] subdivided into n sub-partitions
// per axis.
func New(min, max mgl64.Vec3, n int) *Grid {
	if n < 1 {
		n = 1
	}
	size := max.Sub(min)
	cell := mgl64.Vec3{size.X() / float64(n), size.Y() / float64(n), size.Z() / float64(n)}
	return &Grid{
		Min: min, Max: max, N: n, cellSize: cell,
		subparts: make([]SubPartition, n*n*n),
		index:    make(map[MoleculeID]int),
	}
}

// flatIndex converts an (x,y,z) cell coordinate, already clamped to
// [0,N), into the flat subparts index.
func (g *Grid) flatIndex(x, y, z int) int {
	return x + g.N*(y+g.N*z)
}

// CellOf returns the clamped (x,y,z) sub-partition coordinate containing
// point p. Points outside [Min,Max] are clamped to the nearest boundary
// cell rather than rejected — the diffusion step is expected to handle
// out-of-volume escapes itself, upstream of partition lookup.
func (g *Grid) CellOf(p mgl64.Vec3) (int, int, int) {
	x := g.axisCell(p.X(), g.Min.X(), g.cellSize.X())
	y := g.axisCell(p.Y(), g.Min.Y(), g.cellSize.Y())
	z := g.axisCell(p.Z(), g.Min.Z(), g.cellSize.Z())
	return x, y, z
}

func (g *Grid) axisCell(v, min, cell float64) int {
	if cell <= 0 {
		return 0
	}
	idx := int((v - min) / cell)
	if idx < 0 {
		idx = 0
	}
	if idx >= g.N {
		idx = g.N - 1
	}
	return idx
}

// Insert places molecule id at point p, recording its sub-partition in
// the id->index table.
func (g *Grid) Insert(id MoleculeID, p mgl64.Vec3) {
	x, y, z := g.CellOf(p)
	flat := g.flatIndex(x, y, z)
	g.subparts[flat].Molecules = append(g.subparts[flat].Molecules, id)
	g.index[id] = flat
}

// Move relocates an already-inserted molecule to a new point, updating
// its sub-partition in place.
func (g *Grid) Move(id MoleculeID, p mgl64.Vec3) {
	g.Remove(id)
	g.Insert(id, p)
}

// Remove deletes molecule id from whichever sub-partition currently holds
// it. It is a no-op if id is not present.
func (g *Grid) Remove(id MoleculeID) {
	flat, ok := g.index[id]
	if !ok {
		return
	}
	mols := g.subparts[flat].Molecules
	for i, m := range mols {
		if m == id {
			g.subparts[flat].Molecules = append(mols[:i], mols[i+1:]...)
			break
		}
	}
	delete(g.index, id)
}

// SubPartitionAt returns the sub-partition at cell coordinate (x,y,z).
func (g *Grid) SubPartitionAt(x, y, z int) *SubPartition {
	return &g.subparts[g.flatIndex(x, y, z)]
}

// AddWall registers wall w as resident in the sub-partition at (x,y,z).
// Callers insert a wall into every sub-partition its geometry overlaps.
func (g *Grid) AddWall(x, y, z int, w WallID) {
	flat := g.flatIndex(x, y, z)
	g.subparts[flat].Walls = append(g.subparts[flat].Walls, w)
}

// NeighbourCells returns every in-range cell coordinate within a
// Chebyshev radius of 1 around (x,y,z), used by the diffusion step to
// scan adjacent sub-partitions for collision candidates.
func (g *Grid) NeighbourCells(x, y, z int) [][3]int {
	var out [][3]int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				nx, ny, nz := x+dx, y+dy, z+dz
				if nx < 0 || ny < 0 || nz < 0 || nx >= g.N || ny >= g.N || nz >= g.N {
					continue
				}
				out = append(out, [3]int{nx, ny, nz})
			}
		}
	}
	return out
}

// Count returns the number of live molecules currently tracked.
func (g *Grid) Count() int { return len(g.index) }
