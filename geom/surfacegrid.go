package geom

import "math"

// TileOccupant is a surface-molecule id placed on a tile. Zero means the
// tile is free; real molecule ids are assigned starting from 1 so the
// zero value of the occupancy array means "empty" without extra bookkeeping.
type TileOccupant uint32

const EmptyTile TileOccupant = 0

// SurfaceGrid is a regular subdivision of a wall into N² triangular tiles,
// row r (0-indexed) holding 2r+1 tiles. Tile index t in [0,N²) maps to
// (row, col) via row = floor(sqrt(t)), col = t - row².
type SurfaceGrid struct {
	N         int
	occupancy []TileOccupant
}

// NewSurfaceGrid allocates an empty N×N surface grid (N² tiles).
func NewSurfaceGrid(n int) *SurfaceGrid {
	if n < 1 {
		n = 1
	}
	return &SurfaceGrid{N: n, occupancy: make([]TileOccupant, n*n)}
}

// NumTiles returns the total tile count, N².
func (g *SurfaceGrid) NumTiles() int {
	return len(g.occupancy)
}

// RowCol decomposes a tile index into its triangular-row coordinates.
func (g *SurfaceGrid) RowCol(tile int) (row, col int) {
	row = int(math.Sqrt(float64(tile)))
	for row*row > tile {
		row--
	}
	for (row+1)*(row+1) <= tile {
		row++
	}
	return row, tile - row*row
}

// TileIndex is the inverse of RowCol.
func (g *SurfaceGrid) TileIndex(row, col int) int {
	return row*row + col
}

// Occupant returns the current occupant of a tile (EmptyTile if free).
func (g *SurfaceGrid) Occupant(tile int) TileOccupant {
	return g.occupancy[tile]
}

// Place assigns occupant to tile, returning false if the tile was already
// occupied (tile occupancy is the surface-molecule exclusion rule).
func (g *SurfaceGrid) Place(tile int, occupant TileOccupant) bool {
	if g.occupancy[tile] != EmptyTile {
		return false
	}
	g.occupancy[tile] = occupant
	return true
}

// Clear frees a tile.
func (g *SurfaceGrid) Clear(tile int) {
	g.occupancy[tile] = EmptyTile
}

// Neighbours returns the tile indices adjacent to tile within the same
// wall's triangular tiling.
func (g *SurfaceGrid) Neighbours(tile int) []int {
	row, col := g.RowCol(tile)
	rowLen := 2*row + 1
	var out []int
	if col > 0 {
		out = append(out, g.TileIndex(row, col-1))
	}
	if col < rowLen-1 {
		out = append(out, g.TileIndex(row, col+1))
	}
	if row > 0 && col >= 1 && col-1 < 2*row-1 {
		out = append(out, g.TileIndex(row-1, col-1))
	}
	if row < g.N-1 && col+1 < 2*row+3 {
		out = append(out, g.TileIndex(row+1, col+1))
	}
	return out
}

// NearestFreeTile finds the free tile closest to start via breadth-first
// search over Neighbours, returning ok=false if every tile reachable from
// start is occupied. The search has no radius limit.
func (g *SurfaceGrid) NearestFreeTile(start int) (tile int, ok bool) {
	if g.occupancy[start] == EmptyTile {
		return start, true
	}
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbours(cur) {
			if visited[n] {
				continue
			}
			visited[n] = true
			if g.occupancy[n] == EmptyTile {
				return n, true
			}
			queue = append(queue, n)
		}
	}
	return 0, false
}
