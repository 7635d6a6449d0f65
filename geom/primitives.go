package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AddBox creates a rectangular box object of the given half-extents centred
// at centre, with 12 outward-wound triangles (two per face). The unit cube
// used in §8 scenario 1 is AddBox(centre, {0.5,0.5,0.5}).
func (s *Store) AddBox(name string, centre mgl64.Vec3, halfExtents mgl64.Vec3) ObjectId {
	obj := s.NewObject(name)

	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	corner := func(sx, sy, sz float64) VertexId {
		return s.AddVertex(centre.Add(mgl64.Vec3{sx * hx, sy * hy, sz * hz}))
	}

	// 8 corners, indexed by sign bits (x,y,z) with - = 0, + = 1.
	v := [8]VertexId{
		corner(-1, -1, -1), corner(1, -1, -1), corner(1, 1, -1), corner(-1, 1, -1),
		corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1),
	}

	quad := func(a, b, c, d VertexId) {
		s.AddWall(a, b, c, obj)
		s.AddWall(a, c, d, obj)
	}

	quad(v[0], v[3], v[2], v[1]) // -Z face
	quad(v[5], v[6], v[7], v[4]) // +Z face (diagonal rotated to 5-7)
	quad(v[0], v[1], v[5], v[4]) // -Y face
	quad(v[3], v[7], v[6], v[2]) // +Y face
	quad(v[4], v[7], v[3], v[0]) // -X face (diagonal rotated to 4-3)
	quad(v[1], v[2], v[6], v[5]) // +X face

	return obj
}

// AddUnitCube creates a unit cube of edge 1 centred at centre — 12
// triangles, 8 vertices, outward-facing winding, per §8 scenario 1.
func (s *Store) AddUnitCube(name string, centre mgl64.Vec3) ObjectId {
	return s.AddBox(name, centre, mgl64.Vec3{0.5, 0.5, 0.5})
}

// AddIcosphere builds an approximate sphere by subdividing an octahedron
// `subdivisions` times and projecting vertices onto the sphere of the given
// radius, used for spherical release shapes (§6 initial releases).
func (s *Store) AddIcosphere(name string, centre mgl64.Vec3, radius float64, subdivisions int) ObjectId {
	obj := s.NewObject(name)

	type tri struct{ a, b, c mgl64.Vec3 }
	octa := [8]tri{
		{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}},
		{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{0, 1, 0}, {0, 0, -1}, {-1, 0, 0}},
		{{-1, 0, 0}, {0, 0, -1}, {0, -1, 0}},
		{{0, -1, 0}, {0, 0, -1}, {1, 0, 0}},
	}

	tris := octa[:]
	for iter := 0; iter < subdivisions; iter++ {
		next := make([]tri, 0, len(tris)*4)
		mid := func(a, b mgl64.Vec3) mgl64.Vec3 {
			return a.Add(b).Mul(0.5).Normalize()
		}
		for _, t := range tris {
			ab := mid(t.a, t.b)
			bc := mid(t.b, t.c)
			ca := mid(t.c, t.a)
			next = append(next,
				tri{t.a, ab, ca},
				tri{t.b, bc, ab},
				tri{t.c, ca, bc},
				tri{ab, bc, ca},
			)
		}
		tris = next
	}

	vid := make(map[mgl64.Vec3]VertexId, len(tris)*3)
	vertexFor := func(dir mgl64.Vec3) VertexId {
		key := mgl64.Vec3{
			math.Round(dir.X() * 1e6),
			math.Round(dir.Y() * 1e6),
			math.Round(dir.Z() * 1e6),
		}
		if id, ok := vid[key]; ok {
			return id
		}
		id := s.AddVertex(centre.Add(dir.Mul(radius)))
		vid[key] = id
		return id
	}

	for _, t := range tris {
		s.AddWall(vertexFor(t.a), vertexFor(t.b), vertexFor(t.c), obj)
	}

	return obj
}
