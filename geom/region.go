package geom

// SurfaceClass modifies reaction behaviour for every wall in a region: it
// can force reflection, transmission, or absorption of named species, and
// can itself carry surface-class-scoped reaction rules (consulted by the
// diffuse package during wall-hit resolution).
type SurfaceClass struct {
	Name string
	// ReactiveSpeciesPatterns lists the canonical species-pattern strings
	// this class reacts with; absorbing/reflecting/transparent behaviour
	// per pattern is looked up by the reaction container, not stored here.
	ReactiveSpeciesPatterns []string
}

// Region is a named subset of one object's walls, optionally governed by a
// surface class.
type Region struct {
	Name         string
	Object       ObjectId
	Walls        []WallId
	Class        *SurfaceClass
	BorderEvents bool // region-border crossing reactions enabled
}

// NewRegion registers walls into a new region on an object and appends the
// wall's back-reference so wall-hit resolution can find the owning regions.
func (s *Store) NewRegion(obj ObjectId, name string, walls []WallId, class *SurfaceClass) *Region {
	r := &Region{Name: name, Object: obj, Walls: append([]WallId(nil), walls...), Class: class}
	s.objects[obj].Regions = append(s.objects[obj].Regions, r)
	for _, w := range walls {
		s.walls[w].Regions = append(s.walls[w].Regions, r)
	}
	return r
}

// RegionsOf returns every region containing wall w (across all of the
// wall's owning object's declared regions).
func (s *Store) RegionsOf(w WallId) []*Region {
	return s.walls[w].Regions
}
