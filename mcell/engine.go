// Package mcell is the simulation core's façade: it wires the geometry,
// species, reaction, partition, scheduling, and diffusion packages into a
// single buildable, steppable Engine (§4.7).
package mcell

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/diffuse"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/modelbuilder"
	"github.com/mcellsim/mcell/partition"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/rng"
	"github.com/mcellsim/mcell/schedule"
	"github.com/mcellsim/mcell/species"
)

// subPartitionsPerAxis is the default dense-grid resolution for a built
// engine; a future version may derive this from molecule count and
// bounding volume instead of a fixed constant.
const subPartitionsPerAxis = 8

// Engine is a fully built, runnable simulation: every package this
// façade owns is already wired together and ready to Step.
type Engine struct {
	model     *modelbuilder.Model
	interner  *species.Interner
	reactions *reaction.Engine
	surfaces  *reaction.SurfaceClassTable
	grid      *partition.Grid
	defrag    *partition.Tracker
	wheel     *schedule.Wheel
	stepper   *diffuse.Stepper
	rngSrc    *rng.Source
	logger    Logger

	molecules map[partition.MoleculeID]*diffuse.Molecule
	nextID    partition.MoleculeID

	iteration int64
}

// BuildEngine assembles a runnable Engine from a fully configured Model.
func BuildEngine(model *modelbuilder.Model) (*Engine, error) {
	if model == nil {
		return nil, valueErrorf("model is nil")
	}
	if model.Tau <= 0 {
		return nil, valueErrorf("model timestep Tau must be positive, got %v", model.Tau)
	}

	bounds, err := boundingBoxOf(model.Store)
	if err != nil {
		return nil, err
	}

	interner := species.NewInterner()
	surfaces := reaction.NewSurfaceClassTable()
	for _, def := range model.SurfaceClasses {
		surfaces.Register(def.Name, def.Rules, def.Default)
	}

	e := &Engine{
		model:     model,
		interner:  interner,
		reactions: reaction.NewEngine(interner, model.Rules),
		surfaces:  surfaces,
		grid:      partition.New(bounds.Min, bounds.Max, subPartitionsPerAxis),
		wheel:     schedule.New(model.Tau, 0),
		rngSrc:    rng.New(model.Seed),
		logger:    NewDefaultLogger("mcell", model.Notify.Verbosity >= 2),
		molecules: make(map[partition.MoleculeID]*diffuse.Molecule),
		nextID:    1, // 0 is the "no collider" value of diffuse.StepResult
	}
	e.defrag = partition.NewTracker(e.grid)
	registerWalls(model.Store, e.grid)

	e.stepper = &diffuse.Stepper{
		Store:     model.Store,
		Grid:      e.grid,
		Interner:  e.interner,
		Reactions: e.reactions,
		Surfaces:  e.surfaces,
		RNG:       e.rngSrc,
		Tau:       model.Tau,
		Positions: func(id partition.MoleculeID) (mgl64.Vec3, bool) {
			m, ok := e.molecules[id]
			if !ok || m.Defunct {
				return mgl64.Vec3{}, false
			}
			return m.Pos, true
		},
		SpeciesOf: func(id partition.MoleculeID) species.ID {
			return e.molecules[id].Species
		},
		CompartmentOf: func(id partition.MoleculeID) string {
			if m, ok := e.molecules[id]; ok {
				return m.Compartment
			}
			return ""
		},
		MarkCompartment: func(id partition.MoleculeID, compartment string) {
			if m, ok := e.molecules[id]; ok {
				m.Compartment = compartment
			}
		},
		MarkMoved: func(id partition.MoleculeID, p mgl64.Vec3) {
			if m, ok := e.molecules[id]; ok {
				m.Pos = p
				e.grid.Move(id, p)
			}
		},
		MarkDefunct: func(id partition.MoleculeID) {
			e.markDefunct(id)
		},
	}

	if err := e.populateReleases(); err != nil {
		return nil, err
	}
	return e, nil
}

// registerWalls indexes every wall in store into every sub-partition its
// triangle's axis-aligned bounding box overlaps, so the diffusion step's
// ray trace (which only scans sub-partitions, never the whole wall list)
// can ever find a candidate.
func registerWalls(store *geom.Store, grid *partition.Grid) {
	for i := 0; i < store.NumWalls(); i++ {
		wid := geom.WallId(i)
		w := store.Wall(wid)
		v0, v1, v2 := store.Vertex(w.V0), store.Vertex(w.V1), store.Vertex(w.V2)

		min, max := v0, v0
		for _, v := range [2]mgl64.Vec3{v1, v2} {
			for axis := 0; axis < 3; axis++ {
				if v[axis] < min[axis] {
					min[axis] = v[axis]
				}
				if v[axis] > max[axis] {
					max[axis] = v[axis]
				}
			}
		}

		minX, minY, minZ := grid.CellOf(min)
		maxX, maxY, maxZ := grid.CellOf(max)
		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				for z := minZ; z <= maxZ; z++ {
					grid.AddWall(x, y, z, partition.WallID(wid))
				}
			}
		}
	}
}

func boundingBoxOf(store *geom.Store) (geom.Box, error) {
	if store == nil || store.NumVertices() == 0 {
		return geom.Box{}, semanticErrorf("model geometry is empty, nothing to partition")
	}
	min := store.Vertex(0)
	max := min
	for i := 0; i < store.NumVertices(); i++ {
		v := store.Vertex(geom.VertexId(i))
		for axis := 0; axis < 3; axis++ {
			if v[axis] < min[axis] {
				min[axis] = v[axis]
			}
			if v[axis] > max[axis] {
				max[axis] = v[axis]
			}
		}
	}
	// Pad slightly so molecules diffusing exactly to a boundary vertex
	// still resolve to an in-range cell.
	pad := mgl64.Vec3{1, 1, 1}
	return geom.Box{Min: min.Sub(pad), Max: max.Add(pad)}, nil
}

func (e *Engine) populateReleases() error {
	for _, rel := range e.model.Releases {
		spID := e.interner.Intern(rel.Species)
		for i := 0; i < rel.Count; i++ {
			id := e.nextID
			e.nextID++
			pos := e.sampleReleasePoint(rel)
			mol := &diffuse.Molecule{ID: id, Species: spID, Pos: pos, Compartment: rel.Compartment}
			e.molecules[id] = mol
			e.grid.Insert(id, pos)
			e.scheduleUnimolecularFor(id)
		}
	}
	return nil
}

func (e *Engine) sampleReleasePoint(rel modelbuilder.Release) mgl64.Vec3 {
	box := e.model.Store.ObjectBounds(rel.Object)
	jitter := func(min, max float64) float64 {
		if max <= min {
			return min
		}
		return min + e.rngSrc.Float64()*(max-min)
	}
	return mgl64.Vec3{
		jitter(box.Min.X(), box.Max.X()),
		jitter(box.Min.Y(), box.Max.Y()),
		jitter(box.Min.Z(), box.Max.Z()),
	}
}

func (e *Engine) scheduleUnimolecularFor(id partition.MoleculeID) {
	mol := e.molecules[id]
	class, ok := e.reactions.Unimolecular(mol.Species, mol.Compartment)
	if !ok {
		return
	}
	diffuse.ScheduleUnimolecular(e.wheel, e.rngSrc, id, class)
}

func (e *Engine) markDefunct(id partition.MoleculeID) {
	if m, ok := e.molecules[id]; ok {
		m.Defunct = true
	}
}

// StepReport summarizes one call to Engine.Step.
type StepReport struct {
	Iteration int64
	Time      float64
	Processed int
	Reacted   int
}

// Step advances the simulation by one scheduled event batch: it pops
// every event due at the wheel's next tick and diffuses each live
// molecule among them, applying any reactions the diffusion step
// resolves.
func (e *Engine) Step(ctx context.Context) (StepReport, error) {
	if err := ctx.Err(); err != nil {
		return StepReport{}, wrapRuntime(err, "step cancelled")
	}

	e.iteration++
	due := e.wheel.Advance()
	report := StepReport{Iteration: e.iteration, Time: e.wheel.Now()}

	for _, ev := range due {
		id, ok := ev.Payload.(partition.MoleculeID)
		if !ok {
			continue
		}
		mol, exists := e.molecules[id]
		if !exists || mol.Defunct {
			// Lazy cancellation: a species-destroying reaction never
			// reaches into the wheel, so stale events simply no-op here.
			continue
		}

		dc := e.diffusionClassOf(mol.Species)
		res := e.stepper.Step(id, dc)
		report.Processed++

		switch res.Outcome {
		case diffuse.OutcomeReacted:
			report.Reacted++
			e.applyPathway(mol, res)
		case diffuse.OutcomeAbsorbed:
			e.grid.Remove(id)
		}

		if !mol.Defunct {
			e.scheduleUnimolecularFor(id)
		}

		e.defrag.Tick(func(mid partition.MoleculeID) bool {
			m, ok := e.molecules[mid]
			return ok && m.Defunct
		})
	}

	if e.model.Notify.StatsEvery > 0 && e.iteration%int64(e.model.Notify.StatsEvery) == 0 {
		e.logger.Infof("iteration=%d time=%g live=%d", e.iteration, report.Time, len(e.molecules))
	}

	return report, nil
}

// applyPathway consumes the reacting molecules and interns any products,
// per the sampled pathway's reactant/product slot lists. Reactant and
// product slots are independently authoritative (§9): a species present
// in both lists is not assumed to "continue existing" automatically, it
// must be re-released as one of the products to persist.
func (e *Engine) applyPathway(self *diffuse.Molecule, res diffuse.StepResult) {
	if res.Pathway == nil {
		return
	}
	e.markDefunct(self.ID)
	e.grid.Remove(partition.MoleculeID(self.ID))
	if res.Collider != 0 {
		e.markDefunct(res.Collider)
		e.grid.Remove(res.Collider)
	}

	for _, product := range res.Pathway.Rule.Products {
		spID := e.interner.Intern(product.Pattern)
		id := e.nextID
		e.nextID++
		pos := self.Pos
		compartment := product.Compartment
		if compartment == "" {
			compartment = self.Compartment
		}
		mol := &diffuse.Molecule{ID: id, Species: spID, Pos: pos, Compartment: compartment}
		e.molecules[id] = mol
		e.grid.Insert(id, pos)
		e.scheduleUnimolecularFor(id)
	}
}

func (e *Engine) diffusionClassOf(sp species.ID) species.DiffusionClass {
	// A model that never registered a diffusion constant for sp is
	// treated as stationary rather than an error — matching a receptor
	// species that is deliberately immobile.
	d, ok := e.model.Parameters.Get(diffusionParamName(sp, e.interner))
	if !ok {
		return species.DiffusionClass{Stationary: true, TimeStepFactor: 1}
	}
	return species.DeriveDiffusionClass(d, e.model.Tau, e.model.TargetStep)
}

func diffusionParamName(sp species.ID, interner *species.Interner) string {
	rec, ok := interner.Lookup(sp)
	if !ok {
		return ""
	}
	return fmt.Sprintf("D_%s", rec.Key)
}

// LiveCount returns the number of non-defunct molecules currently
// tracked by the engine.
func (e *Engine) LiveCount() int {
	n := 0
	for _, m := range e.molecules {
		if !m.Defunct {
			n++
		}
	}
	return n
}

// Observe counts how many live molecules currently match pattern.
func (e *Engine) Observe(pattern species.Graph) int {
	count := 0
	for _, m := range e.molecules {
		if m.Defunct {
			continue
		}
		rec, ok := e.interner.Lookup(m.Species)
		if !ok {
			continue
		}
		if species.MatchesPattern(pattern, rec.Canonical) {
			count++
		}
	}
	return count
}

// Now returns the simulation's current time.
func (e *Engine) Now() float64 { return e.wheel.Now() }
