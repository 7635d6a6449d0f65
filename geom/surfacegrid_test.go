package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSurfaceGridPlacementExclusion(t *testing.T) {
	g := NewSurfaceGrid(4)
	require.Equal(t, 16, g.NumTiles())

	require.True(t, g.Place(0, 7))
	require.False(t, g.Place(0, 9), "tile already occupied must reject a second placement")
	require.Equal(t, TileOccupant(7), g.Occupant(0))

	g.Clear(0)
	require.True(t, g.Place(0, 9))
}

func TestSurfaceGridNearestFreeTile(t *testing.T) {
	g := NewSurfaceGrid(3)
	for i := 0; i < g.NumTiles(); i++ {
		require.True(t, g.Place(i, TileOccupant(i+1)))
	}
	_, ok := g.NearestFreeTile(0)
	require.False(t, ok, "fully saturated grid must report no free tile")

	g.Clear(5)
	tile, ok := g.NearestFreeTile(0)
	require.True(t, ok)
	require.Equal(t, 5, tile)
}

func TestSurfaceGridRowColRoundTrip(t *testing.T) {
	g := NewSurfaceGrid(5)
	for t_ := 0; t_ < g.NumTiles(); t_++ {
		row, col := g.RowCol(t_)
		require.Equal(t, t_, g.TileIndex(row, col))
	}
}
