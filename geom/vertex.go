// Package geom owns the vertex store, triangular wall mesh, surface grids
// and named regions that make up a model's static geometry.
package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// VertexId indexes into a Store's vertex array.
type VertexId int32

// WallId indexes into a Store's wall array.
type WallId int32

// ObjectId identifies one geometry object (a connected wall set owned by a
// single release/region namespace).
type ObjectId int32

// Store owns vertices, walls and their adjacency. Vertices are immutable
// once geometry init completes; the Store offers no operation that moves
// a vertex or rebuilds a wall after it has been added.
type Store struct {
	vertices []mgl64.Vec3
	walls    []Wall

	// incidentWalls[v] lists every wall that references vertex v, used to
	// derive the vertex normal as the normalized sum of incident wall
	// normals.
	incidentWalls [][]WallId

	objects []Object
}

// Object groups a contiguous-ish set of walls under one owning geometry
// object, along with its named regions.
//
// Compartment/ParentCompartment name the BNGL compartments a molecule
// belongs to depending on which side of the object's boundary it sits on
// (Compartment = inside, ParentCompartment = outside), consulted by the
// diffusion step on a transmissive wall crossing (§4.3 compartment
// membership tracking).
type Object struct {
	Name    string
	Walls   []WallId
	Regions []*Region

	Compartment       string
	ParentCompartment string
}

// NewStore returns an empty geometry store.
func NewStore() *Store {
	return &Store{}
}

// AddVertex appends a vertex and returns its id.
func (s *Store) AddVertex(p mgl64.Vec3) VertexId {
	id := VertexId(len(s.vertices))
	s.vertices = append(s.vertices, p)
	s.incidentWalls = append(s.incidentWalls, nil)
	return id
}

// Vertex returns the position of vertex id.
func (s *Store) Vertex(id VertexId) mgl64.Vec3 {
	return s.vertices[id]
}

// NumVertices returns the number of vertices in the store.
func (s *Store) NumVertices() int {
	return len(s.vertices)
}

// NumWalls returns the number of walls in the store.
func (s *Store) NumWalls() int {
	return len(s.walls)
}

// Wall returns the wall at id.
func (s *Store) Wall(id WallId) *Wall {
	return &s.walls[id]
}

// IncidentWalls returns the walls that reference vertex v.
func (s *Store) IncidentWalls(v VertexId) []WallId {
	return s.incidentWalls[v]
}

// VertexNormal computes the unit normal at a vertex as the normalized sum
// of the unit normals of its incident walls.
func (s *Store) VertexNormal(v VertexId) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, wid := range s.incidentWalls[v] {
		sum = sum.Add(s.walls[wid].Normal)
	}
	if sum.Len() < 1e-12 {
		return mgl64.Vec3{0, 0, 1}
	}
	return sum.Normalize()
}
