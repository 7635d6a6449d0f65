// Package diffuse implements the per-molecule diffusion step (§4.6):
// Gaussian displacement sampling, ray-tracing against walls and
// neighbouring molecules, collision resolution, and unimolecular event
// scheduling with lazy cancellation.
package diffuse

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/partition"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/species"
)

// Molecule is one live particle in the simulation. Volume molecules carry
// a free-space position; surface molecules additionally reference the
// wall and tile they sit on.
type Molecule struct {
	ID      partition.MoleculeID
	Species species.ID
	Pos     mgl64.Vec3

	// Compartment is the BNGL compartment this molecule currently belongs
	// to, "" meaning unconstrained; it changes only when the diffusion
	// step crosses a transmissive wall (§4.3 compartment membership).
	Compartment string

	OnSurface   bool
	Wall        int32 // geom.WallId, valid only if OnSurface
	Tile        int
	Orientation reaction.Orientation

	// Defunct marks a molecule consumed by a reaction during this step or
	// a previous one. It is checked lazily wherever a stale reference
	// might still be held — most importantly when a previously scheduled
	// unimolecular event finally reaches the front of the scheduler
	// (§9: "never rewire the scheduler on a species-destroying reaction;
	// let the dispatched event discover the molecule is gone").
	Defunct bool
}

// World is the slice of simulation state the diffusion step needs to
// read and mutate, implemented by the engine façade so this package
// doesn't depend on it directly.
type World interface {
	Molecule(id partition.MoleculeID) *Molecule
	DiffusionClass(sp species.ID) species.DiffusionClass
	Grid() *partition.Grid
}
