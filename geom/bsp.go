package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max mgl64.Vec3
}

// Contains reports whether p lies within the closed box.
func (b Box) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// ObjectBounds computes the axis-aligned bounding box of every vertex
// referenced by object obj's walls.
func (s *Store) ObjectBounds(obj ObjectId) Box {
	var box Box
	first := true
	for _, wid := range s.objects[obj].Walls {
		w := &s.walls[wid]
		for _, v := range [3]VertexId{w.V0, w.V1, w.V2} {
			p := s.vertices[v]
			if first {
				box = Box{Min: p, Max: p}
				first = false
				continue
			}
			box.Min = componentMin(box.Min, p)
			box.Max = componentMax(box.Max, p)
		}
	}
	return box
}

func componentMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())}
}

func componentMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())}
}

// rayTriangleIntersect is the Möller-Trumbore intersection test; t is the
// ray parameter (origin + t*dir), reported only for t in (epsilon, +inf).
func rayTriangleIntersect(origin, dir, v0, v1, v2 mgl64.Vec3) (t float64, hit bool) {
	const epsilon = 1e-9

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		return 0, false
	}
	f := 1.0 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = f * edge2.Dot(q)
	if t <= epsilon {
		return 0, false
	}
	return t, true
}

// PointInObject tests whether p lies inside the closed volume bounded by
// object obj's walls, using ray-parity: a ray cast from p in a fixed
// direction crosses the boundary an odd number of times iff p is inside.
// Walls are expected to form a closed, outward-wound manifold.
func (s *Store) PointInObject(obj ObjectId, p mgl64.Vec3) bool {
	dir := mgl64.Vec3{0.5773502691896258, 0.5773502691896258, 0.5773502691896258} // arbitrary irrational-ish direction, avoids grazing axis-aligned walls
	crossings := 0
	for _, wid := range s.objects[obj].Walls {
		w := &s.walls[wid]
		v0, v1, v2 := s.vertices[w.V0], s.vertices[w.V1], s.vertices[w.V2]
		if _, hit := rayTriangleIntersect(p, dir, v0, v1, v2); hit {
			crossings++
		}
	}
	return crossings%2 == 1
}
