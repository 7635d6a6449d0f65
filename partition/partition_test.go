package partition

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestInsertAndCellOf(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 5)
	x, y, z := g.CellOf(mgl64.Vec3{1, 1, 1})
	require.Equal(t, 0, x)
	require.Equal(t, 0, y)
	require.Equal(t, 0, z)

	x, y, z = g.CellOf(mgl64.Vec3{9, 9, 9})
	require.Equal(t, 4, x)
	require.Equal(t, 4, y)
	require.Equal(t, 4, z)
}

func TestCellOfClampsOutOfBounds(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 5)
	x, y, z := g.CellOf(mgl64.Vec3{-5, 100, 5})
	require.Equal(t, 0, x)
	require.Equal(t, 4, y)
	require.Equal(t, 2, z)
}

func TestInsertMoveRemove(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 5)
	g.Insert(1, mgl64.Vec3{1, 1, 1})
	require.Equal(t, 1, g.Count())
	sp := g.SubPartitionAt(0, 0, 0)
	require.Contains(t, sp.Molecules, MoleculeID(1))

	g.Move(1, mgl64.Vec3{9, 9, 9})
	require.Empty(t, g.SubPartitionAt(0, 0, 0).Molecules)
	require.Contains(t, g.SubPartitionAt(4, 4, 4).Molecules, MoleculeID(1))

	g.Remove(1)
	require.Equal(t, 0, g.Count())
	require.Empty(t, g.SubPartitionAt(4, 4, 4).Molecules)
}

func TestNeighbourCellsStaysInRange(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 3)
	neigh := g.NeighbourCells(0, 0, 0)
	for _, c := range neigh {
		require.GreaterOrEqual(t, c[0], 0)
		require.GreaterOrEqual(t, c[1], 0)
		require.GreaterOrEqual(t, c[2], 0)
		require.Less(t, c[0], 3)
	}
	// Corner cell has 2*2*2=8 in-range neighbours including itself.
	require.Len(t, neigh, 8)
}

func TestDefragmentCompactsAndRebuildsIndex(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 2)
	g.Insert(1, mgl64.Vec3{1, 1, 1})
	g.Insert(2, mgl64.Vec3{1, 1, 1})
	g.Insert(3, mgl64.Vec3{9, 9, 9})

	defunct := map[MoleculeID]bool{2: true}
	Defragment(g, func(id MoleculeID) bool { return defunct[id] })

	require.Equal(t, 2, g.Count())
	sp := g.SubPartitionAt(0, 0, 0)
	require.Equal(t, []MoleculeID{1}, sp.Molecules)

	g.Move(1, mgl64.Vec3{9, 9, 9})
	require.Contains(t, g.SubPartitionAt(1, 1, 1).Molecules, MoleculeID(1))
}

func TestTrackerTicksAtPeriodicity(t *testing.T) {
	g := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 2)
	g.Insert(1, mgl64.Vec3{1, 1, 1})
	tr := NewTracker(g)

	var fired bool
	for i := 0; i < DefragPeriodicity; i++ {
		fired = tr.Tick(func(MoleculeID) bool { return false })
	}
	require.True(t, fired, "tracker must fire exactly at the periodicity threshold")
}
