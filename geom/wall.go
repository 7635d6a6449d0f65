package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Wall is a triangle referencing three vertex indices of the owning Store.
type Wall struct {
	V0, V1, V2 VertexId

	Normal mgl64.Vec3
	Area   float64

	// Edges[i] is the neighbour wall sharing the edge opposite vertex i, or
	// -1 if the edge is a free boundary (no neighbour across it).
	Edges [3]WallId

	Grid *SurfaceGrid // nil if the wall carries no surface molecules

	Movable bool
	Object  ObjectId
	Regions []*Region
}

const noNeighbour WallId = -1

// edgeKey canonicalizes an undirected vertex pair for neighbour lookup.
type edgeKey struct{ a, b VertexId }

func makeEdgeKey(a, b VertexId) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// AddWall inserts a triangular wall (v0,v1,v2) belonging to object obj,
// computes its normal/area, updates vertex incidence, and resolves
// edge-neighbour links against every other wall already in the store that
// shares an edge. Winding order determines the outward normal via the
// right-hand rule on (v1-v0) x (v2-v0).
func (s *Store) AddWall(v0, v1, v2 VertexId, obj ObjectId) WallId {
	id := WallId(len(s.walls))

	p0, p1, p2 := s.vertices[v0], s.vertices[v1], s.vertices[v2]
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	cross := e1.Cross(e2)
	area := cross.Len() / 2.0
	normal := mgl64.Vec3{0, 0, 1}
	if cross.Len() > 1e-15 {
		normal = cross.Normalize()
	}

	w := Wall{
		V0: v0, V1: v1, V2: v2,
		Normal:  normal,
		Area:    area,
		Edges:   [3]WallId{noNeighbour, noNeighbour, noNeighbour},
		Movable: false,
		Object:  obj,
	}
	s.walls = append(s.walls, w)

	s.incidentWalls[v0] = append(s.incidentWalls[v0], id)
	s.incidentWalls[v1] = append(s.incidentWalls[v1], id)
	s.incidentWalls[v2] = append(s.incidentWalls[v2], id)

	s.linkEdgeNeighbours(id)

	if int(obj) < len(s.objects) {
		s.objects[obj].Walls = append(s.objects[obj].Walls, id)
	}

	return id
}

// wallEdges returns the three edges of a wall, indexed so edge i is opposite
// vertex i (edge 0 = v1-v2, edge 1 = v2-v0, edge 2 = v0-v1).
func (w *Wall) wallEdges() [3]edgeKey {
	return [3]edgeKey{
		makeEdgeKey(w.V1, w.V2),
		makeEdgeKey(w.V2, w.V0),
		makeEdgeKey(w.V0, w.V1),
	}
}

// linkEdgeNeighbours scans every existing wall for a shared edge with wall
// id and wires both sides' Edges slot. O(n) per insertion; geometry init
// builds the whole mesh once so this is not on any hot path.
func (s *Store) linkEdgeNeighbours(id WallId) {
	edges := s.walls[id].wallEdges()
	for other := WallId(0); int(other) < len(s.walls); other++ {
		if other == id {
			continue
		}
		otherEdges := s.walls[other].wallEdges()
		for i, ek := range edges {
			for j, ok := range otherEdges {
				if ek == ok {
					s.walls[id].Edges[i] = other
					s.walls[other].Edges[j] = id
				}
			}
		}
	}
}

// NewObject registers a new, currently empty geometry object and returns
// its id.
func (s *Store) NewObject(name string) ObjectId {
	id := ObjectId(len(s.objects))
	s.objects = append(s.objects, Object{Name: name})
	return id
}

// ObjectByID returns the object with the given id.
func (s *Store) ObjectByID(id ObjectId) *Object {
	return &s.objects[id]
}

// SetCompartments tags object obj with the compartment name a molecule
// belongs to once inside its volume (inside) and the one it belongs to
// once outside (outside).
func (s *Store) SetCompartments(obj ObjectId, inside, outside string) {
	s.objects[obj].Compartment = inside
	s.objects[obj].ParentCompartment = outside
}
