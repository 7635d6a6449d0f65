package diffuse

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/partition"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/rng"
	"github.com/mcellsim/mcell/schedule"
	"github.com/mcellsim/mcell/species"
	"github.com/stretchr/testify/require"
)

func TestStepStationaryMoleculeNeverMoves(t *testing.T) {
	store := geom.NewStore()
	grid := partition.New(mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10}, 4)
	in := species.NewInterner()
	eng := reaction.NewEngine(in, nil)

	moved := false
	stepper := &Stepper{
		Store: store, Grid: grid, Interner: in, Reactions: eng,
		RNG: rng.New(1), Tau: 1e-6,
		Positions: func(partition.MoleculeID) (mgl64.Vec3, bool) { return mgl64.Vec3{0, 0, 0}, true },
		SpeciesOf: func(partition.MoleculeID) species.ID { return 0 },
		MarkMoved: func(partition.MoleculeID, mgl64.Vec3) { moved = true },
	}

	res := stepper.Step(1, species.DiffusionClass{Stationary: true})
	require.Equal(t, OutcomeStationary, res.Outcome)
	require.False(t, moved)
}

func TestStepMovesFreelyWithNoObstruction(t *testing.T) {
	store := geom.NewStore()
	grid := partition.New(mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10}, 4)
	in := species.NewInterner()
	eng := reaction.NewEngine(in, nil)

	var dest mgl64.Vec3
	stepper := &Stepper{
		Store: store, Grid: grid, Interner: in, Reactions: eng,
		RNG: rng.New(42), Tau: 1e-6,
		Positions: func(partition.MoleculeID) (mgl64.Vec3, bool) { return mgl64.Vec3{0, 0, 0}, true },
		SpeciesOf: func(partition.MoleculeID) species.ID { return 0 },
		MarkMoved: func(_ partition.MoleculeID, p mgl64.Vec3) { dest = p },
	}

	dc := species.DeriveDiffusionClass(1e-6, 1e-6, 1e6)
	res := stepper.Step(1, dc)
	require.Equal(t, OutcomeMoved, res.Outcome)
	require.NotEqual(t, mgl64.Vec3{0, 0, 0}, dest)
}

func TestScheduleUnimolecularInsertsEvent(t *testing.T) {
	wheel := schedule.New(1e-6, 0)
	r := rng.New(7)
	class := &reaction.Class{Total: 1e6}
	ScheduleUnimolecular(wheel, r, partition.MoleculeID(5), class)
	require.True(t, wheel.Peek() || peekAhead(wheel))
}

func peekAhead(w *schedule.Wheel) bool {
	for i := 0; i < 1000; i++ {
		if due := w.Advance(); len(due) > 0 {
			return true
		}
	}
	return false
}

func TestScheduleUnimolecularNoopOnNilClass(t *testing.T) {
	wheel := schedule.New(1e-6, 0)
	r := rng.New(7)
	ScheduleUnimolecular(wheel, r, partition.MoleculeID(5), nil)
	require.False(t, wheel.Peek())
}
