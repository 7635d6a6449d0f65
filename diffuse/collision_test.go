package diffuse

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/partition"
	"github.com/stretchr/testify/require"
)

func TestSortCandidatesOrdersByT(t *testing.T) {
	cands := []Candidate{
		{T: 0.8, Kind: KindMolecule},
		{T: 0.2, Kind: KindWall},
	}
	SortCandidates(cands)
	require.Equal(t, 0.2, cands[0].T)
	require.Equal(t, 0.8, cands[1].T)
}

func TestSortCandidatesTieBreakWallBeforeMolecule(t *testing.T) {
	cands := []Candidate{
		{T: 0.5, Kind: KindMolecule},
		{T: 0.5, Kind: KindWall},
	}
	SortCandidates(cands)
	require.Equal(t, KindWall, cands[0].Kind)
	require.True(t, cands[0].Grazing)
	require.True(t, cands[1].Grazing)
}

func TestRayTraceWallsHitsTriangle(t *testing.T) {
	store := geom.NewStore()
	obj := store.NewObject("plane")
	v0 := store.AddVertex(mgl64.Vec3{-1, -1, 0})
	v1 := store.AddVertex(mgl64.Vec3{1, -1, 0})
	v2 := store.AddVertex(mgl64.Vec3{0, 1, 0})
	store.AddWall(v0, v1, v2, obj)

	grid := partition.New(mgl64.Vec3{-2, -2, -2}, mgl64.Vec3{2, 2, 2}, 2)
	grid.AddWall(0, 0, 0, 0)
	grid.AddWall(0, 0, 1, 0)
	grid.AddWall(1, 0, 0, 0)
	grid.AddWall(1, 0, 1, 0)

	origin := mgl64.Vec3{0, 0, -1}
	disp := mgl64.Vec3{0, 0, 2}

	hits := RayTraceWalls(store, grid, origin, disp)
	require.Len(t, hits, 1)
	require.InDelta(t, 0.5, hits[0].T, 1e-9)
}

func TestRayTraceWallsMisses(t *testing.T) {
	store := geom.NewStore()
	obj := store.NewObject("plane")
	v0 := store.AddVertex(mgl64.Vec3{-1, -1, 0})
	v1 := store.AddVertex(mgl64.Vec3{1, -1, 0})
	v2 := store.AddVertex(mgl64.Vec3{0, 1, 0})
	store.AddWall(v0, v1, v2, obj)

	grid := partition.New(mgl64.Vec3{-2, -2, -2}, mgl64.Vec3{2, 2, 2}, 2)
	grid.AddWall(0, 0, 0, 0)

	origin := mgl64.Vec3{5, 5, -1}
	disp := mgl64.Vec3{0, 0, 2}

	hits := RayTraceWalls(store, grid, origin, disp)
	require.Empty(t, hits)
}

func TestRayTraceMoleculesFindsNearby(t *testing.T) {
	grid := partition.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 2)
	grid.Insert(partition.MoleculeID(7), mgl64.Vec3{5, 5, 5})

	positions := map[partition.MoleculeID]mgl64.Vec3{7: {5, 5, 5}}
	posOf := func(id partition.MoleculeID) (mgl64.Vec3, bool) {
		p, ok := positions[id]
		return p, ok
	}

	hits := RayTraceMolecules(grid, mgl64.Vec3{4.95, 5, 5}, mgl64.Vec3{0.1, 0, 0}, 0.5, posOf, partition.MoleculeID(1))
	require.Len(t, hits, 1)
	require.Equal(t, partition.MoleculeID(7), hits[0].Other)
}

func TestRayTraceMoleculesExcludesSelf(t *testing.T) {
	grid := partition.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, 2)
	grid.Insert(partition.MoleculeID(1), mgl64.Vec3{5, 5, 5})

	positions := map[partition.MoleculeID]mgl64.Vec3{1: {5, 5, 5}}
	posOf := func(id partition.MoleculeID) (mgl64.Vec3, bool) {
		p, ok := positions[id]
		return p, ok
	}

	hits := RayTraceMolecules(grid, mgl64.Vec3{5, 5, 5}, mgl64.Vec3{0.1, 0, 0}, 0.5, posOf, partition.MoleculeID(1))
	require.Empty(t, hits)
}
