package diffuse

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/partition"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/rng"
	"github.com/mcellsim/mcell/schedule"
	"github.com/mcellsim/mcell/species"
)

// Outcome reports what happened to a molecule during one diffusion step.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomeReflected
	OutcomeReacted
	OutcomeStationary
	OutcomeAbsorbed
)

// maxWallBounces bounds the residual-displacement continuation after a
// reflecting or transmitting wall hit, so degenerate geometry (a molecule
// bouncing between two near-parallel walls) cannot recurse forever within
// one event.
const maxWallBounces = 8

// StepResult summarizes one molecule's diffusion step.
type StepResult struct {
	Outcome  Outcome
	Pathway  *reaction.Pathway // set only if Outcome == OutcomeReacted
	Collider partition.MoleculeID
}

// Stepper drives the diffusion step for one simulation, bundling the
// geometry store, spatial partition, reaction engine, and PRNG it needs
// to consult on every molecule encounter.
type Stepper struct {
	Store     *geom.Store
	Grid      *partition.Grid
	Interner  *species.Interner
	Reactions *reaction.Engine
	Surfaces  *reaction.SurfaceClassTable
	RNG       *rng.Source
	Tau       float64 // base simulation timestep

	Positions func(partition.MoleculeID) (mgl64.Vec3, bool)
	SpeciesOf func(partition.MoleculeID) species.ID

	// CompartmentOf and MarkCompartment track a molecule's current
	// compartment membership across transmissive wall crossings (§4.3
	// compartment-tagged rules). Both may be left nil, in which case
	// every molecule is treated as belonging to the unconstrained ""
	// compartment.
	CompartmentOf func(id partition.MoleculeID) string
	MarkCompartment func(id partition.MoleculeID, compartment string)

	MarkMoved   func(id partition.MoleculeID, p mgl64.Vec3)
	MarkDefunct func(id partition.MoleculeID)
}

// Step advances one molecule by one diffusion event: sample a
// displacement, ray-trace for obstructions, resolve the nearest one (or
// move freely if there is none).
func (s *Stepper) Step(id partition.MoleculeID, dc species.DiffusionClass) StepResult {
	if dc.Stationary {
		return StepResult{Outcome: OutcomeStationary}
	}

	origin, ok := s.Positions(id)
	if !ok {
		return StepResult{Outcome: OutcomeStationary}
	}

	sigma := dc.EffectiveSpaceStep(s.Tau)
	dx, dy, dz := s.RNG.Gaussian3(sigma)
	disp := mgl64.Vec3{dx, dy, dz}

	return s.advance(id, dc, origin, disp, 0)
}

// advance runs one segment of the ray trace / candidate resolution; a
// wall hit that reflects or transmits re-enters here with the residual
// displacement from the hit point, up to maxWallBounces deep.
func (s *Stepper) advance(id partition.MoleculeID, dc species.DiffusionClass, origin, disp mgl64.Vec3, bounces int) StepResult {
	wallCands := RayTraceWalls(s.Store, s.Grid, origin, disp)
	molCands := RayTraceMolecules(s.Grid, origin, disp, interactionRadius(dc), s.Positions, id)

	all := make([]Candidate, 0, len(wallCands)+len(molCands))
	all = append(all, wallCands...)
	all = append(all, molCands...)
	SortCandidates(all)

	if len(all) == 0 {
		dest := origin.Add(disp)
		s.MarkMoved(id, dest)
		return StepResult{Outcome: OutcomeMoved}
	}

	first := all[0]
	switch first.Kind {
	case KindWall:
		return s.resolveWallHit(id, dc, origin, disp, first, bounces)
	default:
		return s.resolveMoleculeHit(id, origin, disp, first)
	}
}

// interactionRadius is the Monte-Carlo collision radius for bimolecular
// encounters: proportional to the species' own space step, so faster
// diffusers sweep a wider tube per event (§4.6.2).
func interactionRadius(dc species.DiffusionClass) float64 {
	if dc.SpaceStep <= 0 {
		return 0
	}
	return 0.1 * dc.SpaceStep
}

// resolveWallHit looks up the hit wall's regions for a governing surface
// class and dispatches on its behaviour (§4.6 step 4): absorb destroys
// the molecule on contact; transmit updates compartment membership and
// continues straight through with the residual displacement; reflect
// mirrors the residual displacement about the wall normal and continues.
// A wall with no surface-class-bearing region behaves as a plain
// reflective wall, MCell's default.
func (s *Stepper) resolveWallHit(id partition.MoleculeID, dc species.DiffusionClass, origin, disp mgl64.Vec3, c Candidate, bounces int) StepResult {
	wall := s.Store.Wall(c.Wall)
	hitPoint := origin.Add(disp.Mul(c.T))
	residual := disp.Mul(1 - c.T)

	switch s.surfaceBehaviorFor(id, c.Wall) {
	case reaction.SurfaceAbsorb:
		s.MarkMoved(id, hitPoint)
		s.MarkDefunct(id)
		return StepResult{Outcome: OutcomeAbsorbed}

	case reaction.SurfaceTransmit:
		s.crossWall(id, wall, hitPoint)
		if bounces >= maxWallBounces || residual.Dot(residual) < 1e-18 {
			s.MarkMoved(id, hitPoint)
			return StepResult{Outcome: OutcomeMoved}
		}
		return s.advance(id, dc, hitPoint, residual, bounces+1)

	default:
		reflected := reflectVector(residual, wall.Normal)
		if bounces >= maxWallBounces || reflected.Dot(reflected) < 1e-18 {
			s.MarkMoved(id, hitPoint)
			return StepResult{Outcome: OutcomeReflected}
		}
		return s.advance(id, dc, hitPoint, reflected, bounces+1)
	}
}

// reflectVector mirrors v about the plane with unit normal n.
func reflectVector(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// surfaceBehaviorFor resolves the behaviour a hit on wall w invokes for
// the species of molecule id, consulting the first region on w that
// carries a surface class (a wall can belong to more than one region;
// the first with a class wins). A wall whose regions carry no surface
// class reflects.
func (s *Stepper) surfaceBehaviorFor(id partition.MoleculeID, w geom.WallId) reaction.SurfaceBehavior {
	if s.Surfaces == nil {
		return reaction.SurfaceReflect
	}
	for _, region := range s.Store.RegionsOf(w) {
		if region.Class == nil {
			continue
		}
		rec, ok := s.Interner.Lookup(s.SpeciesOf(id))
		if !ok {
			return reaction.SurfaceReflect
		}
		return s.Surfaces.BehaviorFor(region.Class.Name, rec.Canonical)
	}
	return reaction.SurfaceReflect
}

// crossWall updates id's tracked compartment membership after a
// transmissive crossing of wall, which belongs to object wall.Object:
// inside the object's volume it belongs to that object's Compartment,
// outside it belongs to the object's ParentCompartment.
func (s *Stepper) crossWall(id partition.MoleculeID, wall *geom.Wall, newPos mgl64.Vec3) {
	if s.MarkCompartment == nil {
		return
	}
	obj := s.Store.ObjectByID(wall.Object)
	name := obj.ParentCompartment
	if s.Store.PointInObject(wall.Object, newPos) {
		name = obj.Compartment
	}
	s.MarkCompartment(id, name)
}

// compartmentOf returns id's current compartment, or "" (unconstrained)
// if CompartmentOf was left nil.
func (s *Stepper) compartmentOf(id partition.MoleculeID) string {
	if s.CompartmentOf == nil {
		return ""
	}
	return s.CompartmentOf(id)
}

// resolveMoleculeHit samples the bimolecular reaction class for (self,
// other) and either reports a reaction outcome (leaving product creation
// to the façade, which owns species and molecule-table mutation) or, if
// the sampled draw misses every pathway, lets the molecule continue
// unreacted to the collision point.
func (s *Stepper) resolveMoleculeHit(id partition.MoleculeID, origin, disp mgl64.Vec3, c Candidate) StepResult {
	spSelf := s.SpeciesOf(id)
	spOther := s.SpeciesOf(c.Other)

	class, ok := s.Reactions.Bimolecular(spSelf, spOther, s.compartmentOf(id))
	if !ok {
		hitPoint := origin.Add(disp.Mul(c.T))
		s.MarkMoved(id, hitPoint)
		return StepResult{Outcome: OutcomeMoved, Collider: c.Other}
	}

	draw := s.RNG.Float64() * class.Total
	pathway, hit := class.Select(draw)
	if !hit {
		hitPoint := origin.Add(disp.Mul(c.T))
		s.MarkMoved(id, hitPoint)
		return StepResult{Outcome: OutcomeMoved, Collider: c.Other}
	}
	return StepResult{Outcome: OutcomeReacted, Pathway: &pathway, Collider: c.Other}
}

// ScheduleUnimolecular draws an exponential lifetime from the
// molecule's species' total unimolecular rate and inserts a wheel event
// for it. The event payload is the molecule id; the dispatcher must
// check Defunct before acting on it (lazy cancellation, §9: reactions
// that destroy a molecule never reach into the scheduler to cancel
// events already queued for it).
func ScheduleUnimolecular(wheel *schedule.Wheel, r *rng.Source, id partition.MoleculeID, class *reaction.Class) {
	if class == nil || class.Total <= 0 {
		return
	}
	lifetime := r.Exponential(class.Total)
	wheel.Insert(&schedule.Event{Payload: id}, wheel.Now()+lifetime)
}
